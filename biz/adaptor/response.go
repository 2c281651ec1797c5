package adaptor

import (
	"context"
	"errors"
	"homework-wall/biz/application/dto/gallery"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/util"
	"homework-wall/biz/infrastructure/util/log"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"google.golang.org/grpc/codes"
)

var statusByCode = map[codes.Code]int{
	codes.InvalidArgument:             http.StatusBadRequest,
	codes.NotFound:                    http.StatusNotFound,
	codes.PermissionDenied:            http.StatusForbidden,
	codes.FailedPrecondition:          http.StatusPreconditionFailed,
	codes.Unavailable:                 http.StatusServiceUnavailable,
	consts.ErrWrongPassword.Code():    http.StatusUnauthorized,
	consts.ErrFileTooLarge.Code():     http.StatusRequestEntityTooLarge,
	consts.ErrUnsupportedType.Code():  http.StatusUnsupportedMediaType,
	consts.ErrUpload.Code():           http.StatusBadGateway,
	consts.ErrCreateHomework.Code():   http.StatusBadGateway,
	consts.ErrDeleteHomework.Code():   http.StatusBadGateway,
	consts.ErrGetHomeworkList.Code():  http.StatusBadGateway,
	consts.ErrPermissionDenied.Code(): http.StatusForbidden,
	consts.ErrNotProvisioned.Code():   http.StatusFailedDependency,
}

// HTTPStatus 错误对应的 http 状态码
func HTTPStatus(err error) int {
	var en *consts.Errno
	if !errors.As(err, &en) {
		return http.StatusInternalServerError
	}
	if status, ok := statusByCode[en.Code()]; ok {
		return status
	}
	return http.StatusBadRequest
}

// PostProcess 统一输出响应，错误转为 {code, msg}
func PostProcess(ctx context.Context, c *app.RequestContext, req, resp any, err error) {
	log.CtxInfo(ctx, "[%s] req=%s, resp=%s, err=%v", c.Path(), util.JSONF(req), util.JSONF(resp), err)
	if err == nil {
		c.JSON(http.StatusOK, resp)
		return
	}
	var en *consts.Errno
	if errors.As(err, &en) {
		c.JSON(HTTPStatus(err), &gallery.Response{Code: int64(en.Code()), Msg: en.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, &gallery.Response{Code: int64(codes.Internal), Msg: err.Error()})
}
