package service

import (
	"context"
	"crypto/subtle"
	"homework-wall/biz/adaptor"
	"homework-wall/biz/application/dto/gallery"
	"homework-wall/biz/application/view"
	"homework-wall/biz/infrastructure/config"
	"homework-wall/biz/infrastructure/connection"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util/log"

	"github.com/google/wire"
)

type ISessionService interface {
	GetSession(ctx context.Context) (*gallery.GetSessionResp, error)
	SetScreen(ctx context.Context, req *gallery.SetScreenReq) (*gallery.GetSessionResp, error)
	Login(ctx context.Context, req *gallery.LoginReq) (*gallery.LoginResp, error)
	Logout(ctx context.Context) (*gallery.Response, error)
}

// SessionService 口令进入管理模式，不是真正的身份认证
type SessionService struct {
	Config  *config.Config
	Manager *connection.Manager
	View    *view.State
}

var SessionServiceSet = wire.NewSet(
	wire.Struct(new(SessionService), "*"),
	wire.Bind(new(ISessionService), new(*SessionService)),
)

func (s *SessionService) GetSession(_ context.Context) (*gallery.GetSessionResp, error) {
	snap := s.View.Snapshot()
	_, err := s.Manager.Current()
	resp := &gallery.GetSessionResp{
		Screen:     string(snap.Screen),
		IsAdmin:    snap.IsAdmin,
		Configured: err == nil,
	}
	if snap.Notification != nil {
		resp.Notification = &gallery.Notification{
			ID:                snap.Notification.ID,
			Message:           snap.Notification.Message,
			AutoDismissMillis: snap.Notification.AutoDismissMillis,
		}
	}
	return resp, nil
}

// SetScreen 未配置连接时只能停留在设置页
func (s *SessionService) SetScreen(ctx context.Context, req *gallery.SetScreenReq) (*gallery.GetSessionResp, error) {
	screen := view.Screen(req.Screen)
	if !view.ValidScreen(screen) {
		return nil, consts.ErrInvalidParams
	}
	if _, err := s.Manager.Current(); err != nil && screen != view.ScreenSetup {
		return nil, err
	}
	s.View.SetScreen(screen)
	return s.GetSession(ctx)
}

func (s *SessionService) Login(ctx context.Context, req *gallery.LoginReq) (*gallery.LoginResp, error) {
	expected := s.Config.Auth.AdminPassword
	if expected == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(expected)) != 1 {
		log.CtxInfo(ctx, "管理密码错误")
		s.notify(consts.MsgWrongPassword)
		return nil, consts.ErrWrongPassword
	}
	token, exp, err := adaptor.GenerateJwtToken(s.Config.Auth)
	if err != nil {
		log.CtxError(ctx, "生成 token 失败: %v", err)
		return nil, err
	}
	s.View.SetAdmin(true)
	s.View.SetScreen(view.ScreenGallery)
	s.notify(consts.MsgLoginSucceed)
	return &gallery.LoginResp{Token: token, ExpireAt: exp}, nil
}

func (s *SessionService) Logout(_ context.Context) (*gallery.Response, error) {
	s.View.SetAdmin(false)
	s.notify(consts.MsgLogout)
	return &gallery.Response{Code: 0, Msg: consts.MsgLogout}, nil
}

func (s *SessionService) notify(message string) {
	dismiss := s.Config.Notify.DismissMillis
	if dismiss <= 0 {
		dismiss = consts.DefaultDismissMillis
	}
	s.View.Notify(message, dismiss)
}
