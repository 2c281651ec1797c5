package service

import (
	"context"
	"errors"
	"homework-wall/biz/adaptor"
	"homework-wall/biz/application/view"
	"homework-wall/biz/infrastructure/annotator"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/connection"
	"homework-wall/biz/infrastructure/repository/homework"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
)

var testFallback = homework.Annotation{Subject: "general", Summary: "submitted file", Comment: "received"}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type fakeBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	putErr  error
	reach   error
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{objects: make(map[string][]byte)}
}

func (f *fakeBlob) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	f.objects[key] = data
	return "https://blob.test/" + key, nil
}

func (f *fakeBlob) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlob) TestReachability(_ context.Context) error {
	return f.reach
}

func (f *fakeBlob) Close() error {
	return nil
}

func (f *fakeBlob) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// faultyMapper 在内存存储上注入失败
type faultyMapper struct {
	*homework.MemoryMapper
	insertErr error
	updateErr error
	deleteErr error
	reachErr  error
}

func newFaultyMapper() *faultyMapper {
	return &faultyMapper{MemoryMapper: homework.NewMemoryMapper()}
}

func (m *faultyMapper) Insert(ctx context.Context, h *homework.Homework) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	return m.MemoryMapper.Insert(ctx, h)
}

func (m *faultyMapper) UpdateAnnotation(ctx context.Context, id string, patch homework.AnnotationPatch) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	return m.MemoryMapper.UpdateAnnotation(ctx, id, patch)
}

func (m *faultyMapper) Delete(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	return m.MemoryMapper.Delete(ctx, id)
}

func (m *faultyMapper) TestReachability(_ context.Context) error {
	return m.reachErr
}

// gatedAnnotator 每张图片的分析结果由图片内容决定，可按需阻塞到 release
type gatedAnnotator struct {
	mu     sync.Mutex
	gates  map[string]chan struct{}
	result *homework.Annotation
	err    error
	calls  int
}

func (g *gatedAnnotator) gate(image string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gates == nil {
		g.gates = make(map[string]chan struct{})
	}
	ch, ok := g.gates[image]
	if !ok {
		ch = make(chan struct{})
		g.gates[image] = ch
	}
	return ch
}

func (g *gatedAnnotator) hold(image string) {
	g.gate(image)
}

func (g *gatedAnnotator) release(image string) {
	close(g.gate(image))
}

func (g *gatedAnnotator) Annotate(ctx context.Context, image []byte, _ string) (*homework.Annotation, error) {
	g.mu.Lock()
	g.calls++
	ch, held := g.gates[string(image)]
	g.mu.Unlock()
	if held {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if g.err != nil {
		return nil, g.err
	}
	if g.result != nil {
		a := *g.result
		return &a, nil
	}
	return &homework.Annotation{Subject: string(image), Summary: "summary", Comment: "comment"}, nil
}

func (g *gatedAnnotator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.Auth = config.Auth{AdminPassword: "teacher123", SecretKey: "test-secret", AccessExpire: 3600}
	c.Upload.MaxBytes = 5 << 20
	return c
}

type fixture struct {
	svc    *HomeworkService
	mapper *faultyMapper
	blob   *fakeBlob
	ann    *gatedAnnotator
	view   *view.State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mapper: newFaultyMapper(),
		blob:   newFakeBlob(),
		ann:    &gatedAnnotator{},
		view:   view.NewState(),
	}
	manager := connection.NewManager()
	manager.Swap(context.Background(), &connection.Backend{
		Connection: &connection.Connection{ProjectID: "p"},
		Mapper:     f.mapper,
		Blob:       f.blob,
	})
	f.svc = &HomeworkService{
		Config:   testConfig(),
		Manager:  manager,
		View:     f.view,
		Resolver: annotator.WithFallback(f.ann, testFallback, 2*time.Second),
		Tasks:    NewAnnotationTasks(),
	}
	return f
}

func (f *fixture) waitIdle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.svc.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
}

func adminCtx(t *testing.T, auth config.Auth) context.Context {
	t.Helper()
	token, _, err := adaptor.GenerateJwtToken(auth)
	if err != nil {
		t.Fatalf("GenerateJwtToken: %v", err)
	}
	c := app.NewContext(0)
	c.Request.Header.Set("Authorization", "Bearer "+token)
	return adaptor.InjectContext(context.Background(), c)
}

type errReader struct{}

func (errReader) Read(_ []byte) (int, error) {
	return 0, errors.New("disk gone")
}
