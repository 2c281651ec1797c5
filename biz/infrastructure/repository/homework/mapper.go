package homework

import (
	"context"
)

// IHomeworkMapper 作业记录存储
type IHomeworkMapper interface {
	// ListAll 按上传时间倒序返回全部记录
	ListAll(ctx context.Context) ([]*Homework, error)
	// Insert 写入新记录，由存储分配 ID 并回写到 h.ID
	Insert(ctx context.Context, h *Homework) (string, error)
	UpdateAnnotation(ctx context.Context, id string, patch AnnotationPatch) error
	Delete(ctx context.Context, id string) error
	// TestReachability 低成本读取一次，判断存储是否可用
	TestReachability(ctx context.Context) error
	Close(ctx context.Context) error
}
