package main

import (
	"context"
	"homework-wall/biz/infrastructure/util/log"
	"homework-wall/provider"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/hertz-contrib/monitor-prometheus"
	"github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
)

func main() {
	provider.Init()
	p := provider.Get()
	c := p.Config

	opts := []config.Option{
		server.WithHostPorts(c.ListenOn),
		server.WithTracer(prometheus.NewServerTracer(c.Monitor.MetricsAddr, c.Monitor.MetricsPath)),
	}
	var tracingCfg *tracing.Config
	if c.Monitor.Tracing {
		otel.SetTextMapPropagator(b3.New())
		var tracerOpt config.Option
		tracerOpt, tracingCfg = tracing.NewServerTracer()
		opts = append(opts, tracerOpt)
	}

	h := server.Default(opts...)
	if tracingCfg != nil {
		h.Use(tracing.ServerMiddleware(tracingCfg))
	}
	customizedRegister(h)

	// 恢复上次保存的连接，失败时停留在设置页
	if err := p.SetupService.Restore(context.Background()); err != nil {
		log.Error("恢复连接失败: %v", err)
	}
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		if err := p.HomeworkService.WaitIdle(ctx); err != nil {
			log.Error("等待分析任务结束超时: %v", err)
		}
	})

	log.Info("homework-wall listening on %s", c.ListenOn)
	h.Spin()
}
