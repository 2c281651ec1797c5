package redis

import (
	"homework-wall/biz/infrastructure/config"
	"sync"

	"github.com/zeromicro/go-zero/core/stores/redis"
)

// Redis连接管理
// 未配置 Redis 时返回 nil，调用方据此跳过缓存

var instance *redis.Redis
var once sync.Once

// GetRedis 构造一个Redis客户端
func GetRedis(config *config.Config) *redis.Redis {
	if config.Redis == nil {
		return nil
	}
	once.Do(func() {
		instance = redis.MustNewRedis(*config.Redis)
	})
	return instance
}
