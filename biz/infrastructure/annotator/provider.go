package annotator

import (
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/repository/homework"
	"homework-wall/biz/infrastructure/util/log"
	"time"
)

// NewResolver 按配置创建分析客户端，未配置 APIKey 时所有图片都使用默认结果
func NewResolver(config *config.Config) *Resolver {
	c := config.Annotation
	fallback := homework.Annotation{
		Subject: c.Fallback.Subject,
		Summary: c.Fallback.Summary,
		Comment: c.Fallback.Comment,
	}
	timeout := time.Duration(c.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = consts.DefaultAnnotateTimeout * time.Second
	}
	if c.APIKey == "" {
		log.Info("未配置 Annotation.APIKey，图片分析将使用默认结果")
		return WithFallback(nil, fallback, timeout)
	}
	client := NewGeminiClient(GeminiOptions{
		BaseURL: c.BaseURL,
		Model:   c.Model,
		APIKey:  c.APIKey,
	})
	return WithFallback(client, fallback, timeout)
}
