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

// GetSetupStatus .
// @router /api/v1/setup [GET]
func GetSetupStatus(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.SetupService.Status(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}

// Configure .
// @router /api/v1/setup [POST]
func Configure(ctx context.Context, c *app.RequestContext) {
	var req gallery.ConfigureReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, nil, nil, fmt.Errorf("%w: %w", consts.ErrInvalidParams, err))
		return
	}
	p := provider.Get()
	resp, err := p.SetupService.Configure(ctx, &req)
	// 粘贴的配置里有密钥，日志里不打印请求体
	adaptor.PostProcess(ctx, c, nil, resp, err)
}

// ResetSetup .
// @router /api/v1/setup [DELETE]
func ResetSetup(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.SetupService.Reset(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}
