package gallery

type ConfigureReq struct {
	Config string `json:"config" vd:"len($)>0"`
}

// Connection 去掉密钥后的连接配置
type Connection struct {
	APIKey              string `json:"apiKey"`
	AuthDomain          string `json:"authDomain,omitempty"`
	ProjectID           string `json:"projectId"`
	DatabaseDriver      string `json:"databaseDriver"`
	DatabaseURL         string `json:"databaseURL,omitempty"`
	DatabaseName        string `json:"databaseName,omitempty"`
	StorageDriver       string `json:"storageDriver"`
	StorageBucket       string `json:"storageBucket"`
	StorageEndpoint     string `json:"storageEndpoint,omitempty"`
	StorageRegion       string `json:"storageRegion,omitempty"`
	StorageAccessKey    string `json:"storageAccessKey,omitempty"`
	StorageSecret       string `json:"storageSecret,omitempty"`
	StorageEmulatorHost string `json:"storageEmulatorHost,omitempty"`
	StoragePublicURL    string `json:"storagePublicURL,omitempty"`
}

type SetupStatusResp struct {
	Configured bool        `json:"configured"`
	Connection *Connection `json:"connection,omitempty"`
}
