package service

import (
	"context"
	"homework-wall/biz/infrastructure/util/log"
	"sync"

	"github.com/bytedance/gopkg/util/gopool"
)

// AnnotationTasks 进行中的分析任务登记，同一条记录同时只允许一个任务
type AnnotationTasks struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

func NewAnnotationTasks() *AnnotationTasks {
	return &AnnotationTasks{running: make(map[string]struct{})}
}

// Start 在 gopool 上启动任务，id 已有任务在跑时返回 false
func (t *AnnotationTasks) Start(ctx context.Context, id string, fn func(ctx context.Context)) bool {
	t.mu.Lock()
	if _, ok := t.running[id]; ok {
		t.mu.Unlock()
		log.CtxInfo(ctx, "homework %s 已有分析任务，跳过", id)
		return false
	}
	t.running[id] = struct{}{}
	t.wg.Add(1)
	t.mu.Unlock()

	gopool.CtxGo(ctx, func() {
		defer func() {
			t.mu.Lock()
			delete(t.running, id)
			t.mu.Unlock()
			t.wg.Done()
		}()
		fn(ctx)
	})
	return true
}

func (t *AnnotationTasks) Running() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.running)
}

// Wait 等待所有任务结束或 ctx 到期
func (t *AnnotationTasks) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
