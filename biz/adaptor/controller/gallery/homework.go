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

// ListHomeworks .
// @router /api/v1/homeworks [GET]
func ListHomeworks(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	resp, err := p.HomeworkService.List(ctx)
	adaptor.PostProcess(ctx, c, nil, resp, err)
}

// SubmitHomework .
// @router /api/v1/homeworks [POST]
func SubmitHomework(ctx context.Context, c *app.RequestContext) {
	fh, err := c.FormFile("file")
	if err != nil {
		adaptor.PostProcess(ctx, c, nil, nil, fmt.Errorf("%w: file is required", consts.ErrInvalidParams))
		return
	}
	file, err := fh.Open()
	if err != nil {
		adaptor.PostProcess(ctx, c, nil, nil, fmt.Errorf("%w: %w", consts.ErrRead, err))
		return
	}
	defer file.Close()

	req := &gallery.SubmitHomeworkReq{
		StudentName: c.PostForm("studentName"),
		FileName:    fh.Filename,
		MimeType:    fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      file,
	}
	p := provider.Get()
	resp, err := p.HomeworkService.Submit(adaptor.InjectContext(ctx, c), req)
	adaptor.PostProcess(ctx, c, req, resp, err)
}

// DeleteHomework .
// @router /api/v1/homeworks/:id [DELETE]
func DeleteHomework(ctx context.Context, c *app.RequestContext) {
	var req gallery.DeleteHomeworkReq
	if err := c.BindAndValidate(&req); err != nil {
		adaptor.PostProcess(ctx, c, &req, nil, fmt.Errorf("%w: %w", consts.ErrInvalidParams, err))
		return
	}
	p := provider.Get()
	resp, err := p.HomeworkService.Delete(adaptor.InjectContext(ctx, c), &req)
	adaptor.PostProcess(ctx, c, &req, resp, err)
}
