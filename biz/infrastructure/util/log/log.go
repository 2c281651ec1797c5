package log

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"
)

// 日志统一出口，底层使用 go-zero logx
// logx 的初始化由 config.Config.SetUp 完成

func Info(format string, v ...any) {
	logx.Infof(format, v...)
}

func Error(format string, v ...any) {
	logx.Errorf(format, v...)
}

// CtxInfo 带上下文的日志，会自动附带 trace/span id
func CtxInfo(ctx context.Context, format string, v ...any) {
	logx.WithContext(ctx).Infof(format, v...)
}

func CtxError(ctx context.Context, format string, v ...any) {
	logx.WithContext(ctx).Errorf(format, v...)
}
