package gallery

type Notification struct {
	ID                int64  `json:"id"`
	Message           string `json:"message"`
	AutoDismissMillis int64  `json:"autoDismissMillis"`
}

type GetSessionResp struct {
	Screen       string        `json:"screen"`
	IsAdmin      bool          `json:"isAdmin"`
	Configured   bool          `json:"configured"`
	Notification *Notification `json:"notification,omitempty"`
}

type SetScreenReq struct {
	Screen string `json:"screen" vd:"len($)>0"`
}

type LoginReq struct {
	Password string `json:"password"`
}

type LoginResp struct {
	Token    string `json:"token"`
	ExpireAt int64  `json:"expireAt"`
}
