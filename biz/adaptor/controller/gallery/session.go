package gallery

import (
	"context"
	"fmt"
	"homework-wall/biz/adaptor"
	"homework-wall/biz/application/dto/gallery"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/provider"

	"github.com/cloudwego/hertz/pkg/app"
)

// GetSession .
// @router /api/v1/session [GET]
func GetSession(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.SessionService.GetSession(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}

// SetScreen .
// @router /api/v1/session/screen [PUT]
func SetScreen(ctx context.Context, c *app.RequestContext) {
	var req gallery.SetScreenReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, fmt.Errorf("%w: %w", consts.ErrInvalidParams, err))
		return
	}
	p := provider.Get()
	resp, err := p.SessionService.SetScreen(ctx, &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}

// Login .
// @router /api/v1/session/login [POST]
func Login(ctx context.Context, c *app.RequestContext) {
	var req gallery.LoginReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, nil, nil, fmt.Errorf("%w: %w", consts.ErrInvalidParams, err))
		return
	}
	p := provider.Get()
	resp, err := p.SessionService.Login(ctx, &req)
	// 不记录口令
	adaptor.PostProcess(ctx, c, nil, resp, err)
}

// Logout .
// @router /api/v1/session/logout [POST]
func Logout(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.SessionService.Logout(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}
