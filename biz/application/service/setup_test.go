package service

import (
	"context"
	"errors"
	"fmt"
	"homework-wall/biz/application/dto/gallery"
	"homework-wall/biz/application/view"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/connection"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/repository/homework"
	"path/filepath"
	"strings"
	"testing"
)

const pastedConfig = `const firebaseConfig = {
  apiKey: "AIzaSyTEST",
  authDomain: "class-7b.firebaseapp.com",
  projectId: "class-7b",
  databaseDriver: "memory",
};`

// stubBuilder 返回预先准备的后端
type stubBuilder struct {
	mapper   *faultyMapper
	blob     *fakeBlob
	buildErr error
	built    int
}

func (b *stubBuilder) Build(_ context.Context, conn *connection.Connection) (*connection.Backend, error) {
	if b.buildErr != nil {
		return nil, b.buildErr
	}
	b.built++
	return &connection.Backend{Connection: conn, Mapper: b.mapper, Blob: b.blob}, nil
}

type setupFixture struct {
	svc     *SetupService
	store   *connection.FileStore
	builder *stubBuilder
	manager *connection.Manager
	view    *view.State
}

func newSetupFixture(t *testing.T) *setupFixture {
	t.Helper()
	cfg := testConfig()
	cfg.Setup = config.Setup{Path: filepath.Join(t.TempDir(), "connection.json")}

	f := &setupFixture{
		store:   connection.NewFileStore(cfg),
		builder: &stubBuilder{mapper: newFaultyMapper(), blob: newFakeBlob()},
		manager: connection.NewManager(),
		view:    view.NewState(),
	}
	hs := &HomeworkService{
		Config:   cfg,
		Manager:  f.manager,
		View:     f.view,
		Resolver: nil,
		Tasks:    NewAnnotationTasks(),
	}
	f.svc = &SetupService{
		Config:          cfg,
		Store:           f.store,
		Builder:         f.builder,
		Manager:         f.manager,
		View:            f.view,
		HomeworkService: hs,
	}
	return f
}

func TestConfigureSavesAndLoads(t *testing.T) {
	f := newSetupFixture(t)
	ctx := context.Background()
	_, _ = f.builder.mapper.Insert(ctx, &homework.Homework{StudentName: "old", UploadedAtMillis: 1})

	resp, err := f.svc.Configure(ctx, &gallery.ConfigureReq{Config: pastedConfig})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if !resp.Configured || resp.Connection == nil || resp.Connection.ProjectID != "class-7b" {
		t.Fatalf("Configure resp: got=%+v", resp)
	}
	if resp.Connection.APIKey == "AIzaSyTEST" {
		t.Fatalf("Configure resp leaks api key")
	}

	saved, err := f.store.Load()
	if err != nil || saved == nil || saved.APIKey != "AIzaSyTEST" || saved.StorageBucket != "class-7b.appspot.com" {
		t.Fatalf("saved connection: got=%+v err=%v", saved, err)
	}
	if _, err := f.manager.Current(); err != nil {
		t.Fatalf("Current after configure: %v", err)
	}
	snap := f.view.Snapshot()
	if snap.Screen != view.ScreenGallery || len(snap.Records) != 1 {
		t.Fatalf("view after configure: screen=%q records=%d", snap.Screen, len(snap.Records))
	}
	if snap.Notification == nil || snap.Notification.Message != consts.MsgSetupSucceed {
		t.Fatalf("notification: got=%+v", snap.Notification)
	}
}

func TestConfigureFailureKeepsPrevious(t *testing.T) {
	cases := []struct {
		name  string
		input string
		setup func(f *setupFixture)
		want  error
	}{
		{
			name:  "no braces",
			input: "apiKey = nope",
			want:  consts.ErrInvalidConfig,
		},
		{
			name:  "missing project",
			input: `{"apiKey": "k"}`,
			want:  consts.ErrInvalidConfig,
		},
		{
			name:  "permission denied",
			input: pastedConfig,
			setup: func(f *setupFixture) {
				f.builder.mapper.reachErr = fmt.Errorf("%w: unauthorized", consts.ErrPermissionDenied)
			},
			want: consts.ErrPermissionDenied,
		},
		{
			name:  "not provisioned",
			input: pastedConfig,
			setup: func(f *setupFixture) {
				f.builder.blob.reach = fmt.Errorf("%w: bucket missing", consts.ErrNotProvisioned)
			},
			want: consts.ErrNotProvisioned,
		},
		{
			name:  "unreachable",
			input: pastedConfig,
			setup: func(f *setupFixture) {
				f.builder.buildErr = fmt.Errorf("%w: dial tcp", consts.ErrStoreUnavailable)
			},
			want: consts.ErrStoreUnavailable,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f := newSetupFixture(t)
			previous := &connection.Backend{
				Connection: &connection.Connection{ProjectID: "previous"},
				Mapper:     homework.NewMemoryMapper(),
				Blob:       newFakeBlob(),
			}
			f.manager.Swap(context.Background(), previous)
			if c.setup != nil {
				c.setup(f)
			}

			_, err := f.svc.Configure(context.Background(), &gallery.ConfigureReq{Config: c.input})
			if !errors.Is(err, c.want) {
				t.Fatalf("Configure: want=%v got=%v", c.want, err)
			}
			if saved, _ := f.store.Load(); saved != nil {
				t.Fatalf("failed configure was saved: %+v", saved)
			}
			if cur, _ := f.manager.Current(); cur != previous {
				t.Fatalf("failed configure replaced active backend")
			}
			snap := f.view.Snapshot()
			if snap.Notification == nil || !strings.HasPrefix(snap.Notification.Message, consts.MsgSetupFailed) {
				t.Fatalf("notification: got=%+v", snap.Notification)
			}
		})
	}
}

func TestConfigureDistinguishesFailureKinds(t *testing.T) {
	f := newSetupFixture(t)
	f.builder.mapper.reachErr = fmt.Errorf("%w: auth", consts.ErrPermissionDenied)
	_, denied := f.svc.Configure(context.Background(), &gallery.ConfigureReq{Config: pastedConfig})
	deniedMsg := f.view.Snapshot().Notification.Message

	f.builder.mapper.reachErr = fmt.Errorf("%w: no collection", consts.ErrNotProvisioned)
	_, missing := f.svc.Configure(context.Background(), &gallery.ConfigureReq{Config: pastedConfig})
	missingMsg := f.view.Snapshot().Notification.Message

	if errors.Is(denied, consts.ErrNotProvisioned) || errors.Is(missing, consts.ErrPermissionDenied) {
		t.Fatalf("failure kinds conflated: denied=%v missing=%v", denied, missing)
	}
	if deniedMsg == missingMsg {
		t.Fatalf("notifications should differ, both=%q", deniedMsg)
	}
}

func TestRestore(t *testing.T) {
	t.Run("nothing saved", func(t *testing.T) {
		f := newSetupFixture(t)
		if err := f.svc.Restore(context.Background()); err != nil {
			t.Fatalf("Restore: %v", err)
		}
		if f.view.Snapshot().Screen != view.ScreenSetup {
			t.Fatalf("Restore: want SETUP screen got=%q", f.view.Snapshot().Screen)
		}
		if _, err := f.manager.Current(); !errors.Is(err, consts.ErrNotConfigured) {
			t.Fatalf("Current: want ErrNotConfigured got=%v", err)
		}
	})

	t.Run("saved", func(t *testing.T) {
		f := newSetupFixture(t)
		conn, err := connection.Parse(pastedConfig)
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if err := f.store.Save(conn); err != nil {
			t.Fatalf("Save: %v", err)
		}
		_, _ = f.builder.mapper.Insert(context.Background(), &homework.Homework{StudentName: "a", UploadedAtMillis: 5})

		if err := f.svc.Restore(context.Background()); err != nil {
			t.Fatalf("Restore: %v", err)
		}
		snap := f.view.Snapshot()
		if snap.Screen != view.ScreenGallery || len(snap.Records) != 1 {
			t.Fatalf("Restore: screen=%q records=%d", snap.Screen, len(snap.Records))
		}
		if f.builder.built != 1 {
			t.Fatalf("Restore: want one build got=%d", f.builder.built)
		}
	})
}

func TestResetClearsEverything(t *testing.T) {
	f := newSetupFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Configure(ctx, &gallery.ConfigureReq{Config: pastedConfig}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	f.view.SetAdmin(true)
	f.view.InsertFront(&homework.Homework{ID: "h1"})

	if _, err := f.svc.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if saved, _ := f.store.Load(); saved != nil {
		t.Fatalf("Reset: connection still saved")
	}
	snap := f.view.Snapshot()
	if snap.Screen != view.ScreenSetup || snap.IsAdmin || len(snap.Records) != 0 {
		t.Fatalf("Reset: got=%+v", snap)
	}
	status, _ := f.svc.Status(ctx)
	if status.Configured {
		t.Fatalf("Status after reset: still configured")
	}
}
