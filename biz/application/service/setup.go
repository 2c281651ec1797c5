package service

import (
	"context"
	"errors"
	"homework-wall/biz/application/dto/gallery"
	"homework-wall/biz/application/view"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/connection"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"

	"github.com/google/wire"
	"github.com/jinzhu/copier"
)

type ISetupService interface {
	Configure(ctx context.Context, req *gallery.ConfigureReq) (*gallery.SetupStatusResp, error)
	Restore(ctx context.Context) error
	Reset(ctx context.Context) (*gallery.Response, error)
	Status(ctx context.Context) (*gallery.SetupStatusResp, error)
}

type SetupService struct {
	Config          *config.Config
	Store           connection.IStore
	Builder         connection.IBuilder
	Manager         *connection.Manager
	View            *view.State
	HomeworkService IHomeworkService
}

var SetupServiceSet = wire.NewSet(
	wire.Struct(new(SetupService), "*"),
	wire.Bind(new(ISetupService), new(*SetupService)),
)

// Configure 解析、连通性测试通过后才保存并切换到新连接
func (s *SetupService) Configure(ctx context.Context, req *gallery.ConfigureReq) (*gallery.SetupStatusResp, error) {
	conn, err := connection.Parse(req.Config)
	if err != nil {
		s.fail(ctx, err)
		return nil, err
	}
	backend, err := s.Builder.Build(ctx, conn)
	if err != nil {
		s.fail(ctx, err)
		return nil, err
	}
	if err := backend.TestReachability(ctx); err != nil {
		_ = backend.Close(ctx)
		s.fail(ctx, err)
		return nil, err
	}
	if err := s.Store.Save(conn); err != nil {
		_ = backend.Close(ctx)
		s.fail(ctx, err)
		return nil, err
	}

	s.Manager.Swap(ctx, backend)
	if err := s.HomeworkService.Load(ctx); err != nil {
		log.CtxError(ctx, "切换连接后加载作品失败: %v", err)
	}
	s.View.SetScreen(view.ScreenGallery)
	s.notify(consts.MsgSetupSucceed)
	return s.Status(ctx)
}

// Restore 启动时恢复上次保存的连接，没有时停留在设置页
func (s *SetupService) Restore(ctx context.Context) error {
	conn, err := s.Store.Load()
	if err != nil {
		log.CtxError(ctx, "读取已保存的连接失败: %v", err)
		s.View.SetScreen(view.ScreenSetup)
		return err
	}
	if conn == nil {
		log.CtxInfo(ctx, "尚未配置连接，进入设置页")
		s.View.SetScreen(view.ScreenSetup)
		return nil
	}
	backend, err := s.Builder.Build(ctx, conn)
	if err != nil {
		log.CtxError(ctx, "恢复连接失败: %v", err)
		s.View.SetScreen(view.ScreenSetup)
		return err
	}
	s.Manager.Swap(ctx, backend)
	s.View.SetScreen(view.ScreenGallery)
	return s.HomeworkService.Load(ctx)
}

// Reset 清除保存的连接并回到设置页
func (s *SetupService) Reset(ctx context.Context) (*gallery.Response, error) {
	if err := s.Store.Clear(); err != nil {
		log.CtxError(ctx, "清除连接配置失败: %v", err)
		return nil, err
	}
	s.Manager.Clear(ctx)
	s.View.Replace(nil)
	s.View.SetAdmin(false)
	s.View.SetScreen(view.ScreenSetup)
	s.notify(consts.MsgSetupReset)
	return &gallery.Response{Code: 0, Msg: consts.MsgSetupReset}, nil
}

func (s *SetupService) Status(_ context.Context) (*gallery.SetupStatusResp, error) {
	backend, err := s.Manager.Current()
	if errors.Is(err, consts.ErrNotConfigured) {
		return &gallery.SetupStatusResp{Configured: false}, nil
	}
	if err != nil {
		return nil, err
	}
	resp := &gallery.SetupStatusResp{Configured: true, Connection: new(gallery.Connection)}
	if backend.Connection != nil {
		if err := copier.Copy(resp.Connection, backend.Connection.Redacted()); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// fail 连接失败的提示带上错误种类，便于教师据此修改配置
func (s *SetupService) fail(ctx context.Context, err error) {
	log.CtxError(ctx, "连接配置失败: %v", err)
	msg := consts.MsgSetupFailed
	var en *consts.Errno
	if errors.As(err, &en) {
		msg += ": " + en.Error()
	}
	s.notify(msg)
}

func (s *SetupService) notify(message string) {
	dismiss := s.Config.Notify.DismissMillis
	if dismiss <= 0 {
		dismiss = consts.DefaultDismissMillis
	}
	s.View.Notify(message, dismiss)
}
