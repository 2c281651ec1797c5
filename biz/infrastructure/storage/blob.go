package storage

import (
	"context"
)

// IBlobStore 作业文件存储
type IBlobStore interface {
	// Put 写入文件并返回可公开访问的地址
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	TestReachability(ctx context.Context) error
	Close() error
}
