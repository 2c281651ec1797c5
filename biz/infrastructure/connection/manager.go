package connection

import (
	"context"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"
	"sync"
)

// Manager 持有唯一生效的后端
type Manager struct {
	mu      sync.RWMutex
	backend *Backend
}

func NewManager() *Manager {
	return &Manager{}
}

// Current 未配置时返回 ErrNotConfigured
func (m *Manager) Current() (*Backend, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.backend == nil {
		return nil, consts.ErrNotConfigured
	}
	return m.backend, nil
}

// Swap 替换后端并关闭旧的
func (m *Manager) Swap(ctx context.Context, b *Backend) {
	m.mu.Lock()
	old := m.backend
	m.backend = b
	m.mu.Unlock()
	closeBackend(ctx, old)
}

func (m *Manager) Clear(ctx context.Context) {
	m.Swap(ctx, nil)
}

func closeBackend(ctx context.Context, b *Backend) {
	if b == nil {
		return
	}
	if err := b.Close(ctx); err != nil {
		log.CtxError(ctx, "关闭旧连接失败: %v", err)
	}
}
