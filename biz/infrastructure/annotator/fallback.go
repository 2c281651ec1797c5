package annotator

import (
	"context"
	"homework-wall/biz/infrastructure/repository/homework"
	"homework-wall/biz/infrastructure/util/log"
	"time"
)

// Resolver 包装 IAnnotator，任何失败都退回默认结果
type Resolver struct {
	annotator IAnnotator
	fallback  homework.Annotation
	timeout   time.Duration
}

func WithFallback(annotator IAnnotator, fallback homework.Annotation, timeout time.Duration) *Resolver {
	return &Resolver{
		annotator: annotator,
		fallback:  fallback,
		timeout:   timeout,
	}
}

// Fallback 默认分析结果
func (r *Resolver) Fallback() homework.Annotation {
	return r.fallback
}

// Resolve 总能返回一个完整的分析结果
func (r *Resolver) Resolve(ctx context.Context, image []byte, mimeType string) homework.Annotation {
	if r.annotator == nil || homework.KindOf(mimeType) != homework.FileKindImage {
		return r.fallback
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	a, err := r.annotator.Annotate(ctx, image, mimeType)
	if err != nil {
		log.CtxError(ctx, "AI 分析失败，使用默认结果: %v", err)
		return r.fallback
	}
	return *a
}
