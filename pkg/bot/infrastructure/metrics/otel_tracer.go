package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	metrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/metrics"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const moduleName = "metrics"

const serviceName = "slackchatbot"

// OpenTelemetryTracer is an implementation of metrics.Tracer that exports
// spans over OTLP.
type OpenTelemetryTracer struct {
	tracer trace.Tracer
}

// NewOpenTelemetryTracer creates the tracer. When tracing is disabled in the
// configuration, a no-op tracer is returned and no exporter is created.
func NewOpenTelemetryTracer(lc fx.Lifecycle, cfg *config.Config) (metrics.Tracer, error) {
	if !cfg.Bot.Tracing.Enabled {
		logger.Debugf("Tracing is disabled, using no-op tracer.")
		return metrics.NewNoopTracer(), nil
	}

	exporter, err := newSpanExporter(cfg.Bot.Tracing)
	if err != nil {
		return nil, err
	}

	res, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewSchemaless(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, exception.NewBotError(moduleName, "failed to build trace resource", err, false)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Infof("Shutting down trace provider.")
			return provider.Shutdown(ctx)
		},
	})

	logger.Infof("Tracing enabled with '%s' exporter (endpoint: %s).", cfg.Bot.Tracing.Exporter, cfg.Bot.Tracing.Endpoint)
	return &OpenTelemetryTracer{tracer: provider.Tracer(serviceName)}, nil
}

// newSpanExporter builds the OTLP span exporter for the configured transport.
func newSpanExporter(cfg config.TracingConfig) (*otlptrace.Exporter, error) {
	ctx := context.Background()
	switch cfg.Exporter {
	case "grpc":
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
	case "http", "":
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.Endpoint),
			otlptracehttp.WithInsecure(),
		)
	default:
		return nil, exception.NewBotError(moduleName, fmt.Sprintf("unsupported trace exporter '%s'", cfg.Exporter), nil, false)
	}
}

// StartSpan starts a span with the given name.
func (t *OpenTelemetryTracer) StartSpan(ctx context.Context, name string) (context.Context, func(err error)) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

var _ metrics.Tracer = (*OpenTelemetryTracer)(nil)
