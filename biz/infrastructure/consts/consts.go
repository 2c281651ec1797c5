package consts

// 数据库相关
const (
	ID                 = "_id"
	CollectionHomework = "homeworks"
	TableHomework      = "homeworks"
	UploadedAtMillis   = "uploaded_at_millis"
	Annotation         = "annotation"
	IsAnnotating       = "is_annotating"
)

// 存储相关
const (
	ObjectKeyPrefix = "homeworks"
)

// 驱动
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
	DriverGCS    = "gcs"
	DriverS3     = "s3"
)

// http
const (
	Post            = "POST"
	ContentTypeJson = "application/json"
	Authorization   = "Authorization"
	Bearer          = "Bearer "
)

// 默认值
const (
	DefaultMaxUploadBytes   = 5 << 20
	DefaultDismissMillis    = 3000
	DefaultAnnotateTimeout  = 30
	DefaultListCacheSeconds = 60
	RoleTeacher             = "teacher"
)

// 提示消息
const (
	MsgUploadSucceed    = "作业上传成功！"
	MsgUploadFailed     = "上传失败，请重试。"
	MsgDeleteSucceed    = "作品已删除"
	MsgDeleteFailed     = "删除失败，请重试。"
	MsgLoginSucceed     = "欢迎回来，老师！"
	MsgLogout           = "已退出登录"
	MsgSetupSucceed     = "连接成功！"
	MsgSetupFailed      = "连接测试失败"
	MsgSetupReset       = "配置已清除"
	MsgLoadFailed       = "加载作品列表失败"
	MsgNotConfigured    = "请先完成存储配置"
	MsgWrongPassword    = "密码错误"
	MsgAdminRequired    = "请先以老师身份登录"
	MsgSubmitIncomplete = "请填写学生姓名并选择文件"
)
