package homework

import (
	"context"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"sync"

	"github.com/google/uuid"
)

// MemoryMapper 进程内存储，用于本地开发与测试，进程退出即丢失
type MemoryMapper struct {
	mutex sync.RWMutex
	table map[string]*Homework
}

func NewMemoryMapper() *MemoryMapper {
	return &MemoryMapper{table: make(map[string]*Homework)}
}

func (m *MemoryMapper) ListAll(_ context.Context) ([]*Homework, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	list := make([]*Homework, 0, len(m.table))
	for _, h := range m.table {
		list = append(list, h.Clone())
	}
	SortByUploadedDesc(list)
	return list, nil
}

func (m *MemoryMapper) Insert(_ context.Context, h *Homework) (string, error) {
	if h.ID != "" {
		return "", fmt.Errorf("%w: id already assigned", consts.ErrInvalidParams)
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	h.ID = uuid.NewString()
	m.table[h.ID] = h.Clone()
	return h.ID, nil
}

func (m *MemoryMapper) UpdateAnnotation(_ context.Context, id string, patch AnnotationPatch) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	h, ok := m.table[id]
	if !ok {
		return fmt.Errorf("%w: homework %s", consts.ErrNotFound, id)
	}
	h.Apply(patch)
	return nil
}

func (m *MemoryMapper) Delete(_ context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.table[id]; !ok {
		return fmt.Errorf("%w: homework %s", consts.ErrNotFound, id)
	}
	delete(m.table, id)
	return nil
}

func (m *MemoryMapper) TestReachability(_ context.Context) error {
	return nil
}

func (m *MemoryMapper) Close(_ context.Context) error {
	return nil
}
