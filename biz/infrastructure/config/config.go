package config

import (
	"homework-wall/biz/infrastructure/util/log"
	"os"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/core/stores/redis"
)

const defaultConfigPath = "etc/config.yaml"

type Auth struct {
	AdminPassword string
	SecretKey     string
	AccessExpire  int64 `json:",default=86400"`
}

type Config struct {
	service.ServiceConf
	ListenOn         string `json:",default=0.0.0.0:8888"`
	State            string `json:",default=dev"`
	Auth             Auth
	Setup            Setup
	Redis            *redis.RedisConf `json:",optional"`
	ListCacheSeconds int              `json:",default=60"`
	Annotation       Annotation
	Upload           Upload
	Notify           Notify
	Monitor          Monitor
}

// Setup 外部连接配置的本地持久化位置
type Setup struct {
	Path string `json:",default=data/connection.json"`
}

// Annotation AI 分析服务
type Annotation struct {
	BaseURL        string `json:",default=https://generativelanguage.googleapis.com"`
	Model          string `json:",default=gemini-2.5-flash"`
	APIKey         string `json:",optional,env=GEMINI_API_KEY"`
	TimeoutSeconds int64  `json:",default=30"`
	Fallback       Fallback
}

// Fallback AI 调用失败时使用的默认分析结果
type Fallback struct {
	Subject string `json:",default=general"`
	Summary string `json:",default=submitted file"`
	Comment string `json:",default=received"`
}

type Upload struct {
	MaxBytes     int64    `json:",default=5242880"`
	AllowedTypes []string `json:",optional"`
}

type Notify struct {
	DismissMillis int64 `json:",default=3000"`
}

type Monitor struct {
	MetricsAddr string `json:",default=:9091"`
	MetricsPath string `json:",default=/metrics"`
	Tracing     bool   `json:",default=true"`
}

func NewConfig() (*Config, error) {
	c := new(Config)

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	log.Info("NewConfig load config from path: %s", path)
	if err := conf.Load(path, c); err != nil {
		return nil, err
	}

	if err := c.SetUp(); err != nil {
		return nil, err
	}
	return c, nil
}
