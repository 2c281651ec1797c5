package connection

import (
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Connection 教师在设置页粘贴的外部存储配置
type Connection struct {
	APIKey              string `mapstructure:"apiKey" json:"apiKey"`
	AuthDomain          string `mapstructure:"authDomain" json:"authDomain,omitempty"`
	ProjectID           string `mapstructure:"projectId" json:"projectId"`
	MessagingSenderID   string `mapstructure:"messagingSenderId" json:"messagingSenderId,omitempty"`
	AppID               string `mapstructure:"appId" json:"appId,omitempty"`
	MeasurementID       string `mapstructure:"measurementId" json:"measurementId,omitempty"`
	DatabaseDriver      string `mapstructure:"databaseDriver" json:"databaseDriver"`
	DatabaseURL         string `mapstructure:"databaseURL" json:"databaseURL,omitempty"`
	DatabaseName        string `mapstructure:"databaseName" json:"databaseName,omitempty"`
	StorageDriver       string `mapstructure:"storageDriver" json:"storageDriver"`
	StorageBucket       string `mapstructure:"storageBucket" json:"storageBucket"`
	StorageEndpoint     string `mapstructure:"storageEndpoint" json:"storageEndpoint,omitempty"`
	StorageRegion       string `mapstructure:"storageRegion" json:"storageRegion,omitempty"`
	StorageAccessKey    string `mapstructure:"storageAccessKey" json:"storageAccessKey,omitempty"`
	StorageSecret       string `mapstructure:"storageSecret" json:"storageSecret,omitempty"`
	StorageCredentials  string `mapstructure:"storageCredentials" json:"storageCredentials,omitempty"`
	StorageEmulatorHost string `mapstructure:"storageEmulatorHost" json:"storageEmulatorHost,omitempty"`
	StoragePublicURL    string `mapstructure:"storagePublicURL" json:"storagePublicURL,omitempty"`
}

// Parse 解析粘贴的配置块，支持 JSON 与 JS 对象字面量，如
//
//	const firebaseConfig = { apiKey: "...", projectId: "..." };
func Parse(raw string) (*Connection, error) {
	first, last := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if first == -1 || last < first {
		return nil, fmt.Errorf("%w: 无法解析配置格式，请确保复制了包含 { ... } 的内容", consts.ErrInvalidConfig)
	}
	body := stripLineComments(raw[first : last+1])

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("%w: 无法解析配置格式: %w", consts.ErrInvalidConfig, err)
	}

	conn := new(Connection)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           conn,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("%w: %w", consts.ErrInvalidConfig, err)
	}
	if err := conn.Normalize(); err != nil {
		return nil, err
	}
	return conn, nil
}

func stripLineComments(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Normalize 填充默认值并校验必填字段
func (c *Connection) Normalize() error {
	c.trim()
	if c.APIKey == "" || c.ProjectID == "" {
		return fmt.Errorf("%w: 缺少 apiKey 或 projectId 字段", consts.ErrInvalidConfig)
	}
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = consts.DriverMongo
	}
	if c.DatabaseName == "" {
		c.DatabaseName = c.ProjectID
	}
	if c.StorageDriver == "" {
		c.StorageDriver = consts.DriverGCS
	}
	if c.StorageBucket == "" {
		c.StorageBucket = c.ProjectID + ".appspot.com"
	}

	switch c.DatabaseDriver {
	case consts.DriverMongo, consts.DriverMySQL:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: 缺少 databaseURL 字段", consts.ErrInvalidConfig)
		}
	case consts.DriverMemory:
	default:
		return fmt.Errorf("%w: 不支持的 databaseDriver: %s", consts.ErrInvalidConfig, c.DatabaseDriver)
	}

	switch c.StorageDriver {
	case consts.DriverGCS:
	case consts.DriverS3:
		if c.StorageEndpoint == "" {
			return fmt.Errorf("%w: 缺少 storageEndpoint 字段", consts.ErrInvalidConfig)
		}
		if c.StorageSecret == "" {
			return fmt.Errorf("%w: 缺少 storageSecret 字段", consts.ErrInvalidConfig)
		}
		if c.StorageAccessKey == "" {
			c.StorageAccessKey = c.APIKey
		}
	default:
		return fmt.Errorf("%w: 不支持的 storageDriver: %s", consts.ErrInvalidConfig, c.StorageDriver)
	}
	return nil
}

func (c *Connection) trim() {
	for _, f := range []*string{
		&c.APIKey, &c.ProjectID, &c.DatabaseDriver, &c.DatabaseURL, &c.DatabaseName,
		&c.StorageDriver, &c.StorageBucket, &c.StorageEndpoint, &c.StorageRegion,
		&c.StorageAccessKey, &c.StorageSecret, &c.StorageEmulatorHost, &c.StoragePublicURL,
	} {
		*f = strings.TrimSpace(*f)
	}
	c.DatabaseDriver = strings.ToLower(c.DatabaseDriver)
	c.StorageDriver = strings.ToLower(c.StorageDriver)
}

// Redacted 返回去掉密钥后的副本，用于展示
func (c *Connection) Redacted() *Connection {
	r := *c
	r.APIKey = mask(c.APIKey)
	r.StorageAccessKey = mask(c.StorageAccessKey)
	r.StorageSecret = mask(c.StorageSecret)
	if c.StorageCredentials != "" {
		r.StorageCredentials = "****"
	}
	r.DatabaseURL = redactDatabaseURL(c.DatabaseDriver, c.DatabaseURL)
	return &r
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

func redactDatabaseURL(driver, raw string) string {
	if raw == "" {
		return ""
	}
	if driver == consts.DriverMySQL {
		if cfg, err := mysql.ParseDSN(raw); err == nil {
			if cfg.Passwd != "" {
				cfg.Passwd = "xxxxx"
			}
			return cfg.FormatDSN()
		}
		return "****"
	}
	if u, err := url.Parse(raw); err == nil {
		return u.Redacted()
	}
	return "****"
}
