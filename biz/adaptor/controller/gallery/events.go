package gallery

import (
	"context"
	"homework-wall/biz/application/view"
	"homework-wall/biz/infrastructure/util"
	"homework-wall/biz/infrastructure/util/log"
	"homework-wall/provider"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/sse"
)

// Events 先推送一次完整快照，之后推送视图的每次变化
// @router /api/v1/events [GET]
func Events(ctx context.Context, c *app.RequestContext) {
	p := provider.Get()
	events, cancel := p.View.Subscribe()
	defer cancel()

	c.SetStatusCode(http.StatusOK)
	w := sse.NewWriter(c)
	snapshot := view.Event{Type: view.EventSnapshot, Data: p.View.Snapshot()}
	if err := w.WriteEvent("", string(snapshot.Type), []byte(util.JSONF(snapshot))); err != nil {
		log.CtxError(ctx, "发送SSE事件失败: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := w.WriteEvent("", string(evt.Type), []byte(util.JSONF(evt))); err != nil {
				log.CtxInfo(ctx, "SSE 连接已断开: %v", err)
				return
			}
		}
	}
}
