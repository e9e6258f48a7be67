package metrics

import (
	"net/http"

	"go.uber.org/fx"

	metrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/metrics"
)

// Module is an Fx module that provides the Prometheus recorder, the metrics
// HTTP handler and the OpenTelemetry tracer.
var Module = fx.Options(
	fx.Provide(NewPrometheusRecorder),
	fx.Provide(func(r *PrometheusRecorder) metrics.Recorder { return r }),
	fx.Provide(fx.Annotate(
		func(r *PrometheusRecorder) http.Handler { return r.Handler() },
		fx.ResultTags(`name:"metricsHandler"`),
	)),
	fx.Provide(NewOpenTelemetryTracer),
)
