// Package metrics provides the concrete observability implementations:
// a Prometheus recorder and an OpenTelemetry tracer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	metrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/metrics"
)

// PrometheusRecorder is a Prometheus implementation of the metrics.Recorder interface.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	eventsReceived       *prometheus.CounterVec
	exchangesTotal       *prometheus.CounterVec
	exchangeDuration     *prometheus.HistogramVec
	modelRequestsTotal   *prometheus.CounterVec
	modelRequestDuration *prometheus.HistogramVec
	replyParts           prometheus.Histogram
}

// NewPrometheusRecorder creates a new instance of PrometheusRecorder.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	// Register Go standard metrics and process/OS metrics.
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		eventsReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_events_received_total",
			Help: "Total number of Slack events received by event type.",
		}, []string{"event_type"}),
		exchangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_exchanges_total",
			Help: "Total number of completed exchanges by outcome.",
		}, []string{"outcome"}),
		exchangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bot_exchange_duration_seconds",
			Help:    "End-to-end duration of exchanges.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		modelRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_model_requests_total",
			Help: "Total number of model requests by kind and result.",
		}, []string{"kind", "result"}),
		modelRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bot_model_request_duration_seconds",
			Help:    "Duration of model requests by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		replyParts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bot_reply_parts",
			Help:    "Number of Slack messages an answer was split into.",
			Buckets: []float64{1, 2, 3, 5, 8, 13},
		}),
	}

	// Register all metrics with the registry.
	registry.MustRegister(r.eventsReceived)
	registry.MustRegister(r.exchangesTotal)
	registry.MustRegister(r.exchangeDuration)
	registry.MustRegister(r.modelRequestsTotal)
	registry.MustRegister(r.modelRequestDuration)
	registry.MustRegister(r.replyParts)

	return r
}

// GetRegistry returns the Prometheus registry.
func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

// Handler returns the HTTP handler serving the registry's metrics.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordEventReceived counts an incoming Slack event by type.
func (r *PrometheusRecorder) RecordEventReceived(eventType string) {
	r.eventsReceived.WithLabelValues(eventType).Inc()
}

// RecordExchange records a completed exchange with its outcome and duration.
func (r *PrometheusRecorder) RecordExchange(outcome string, duration time.Duration) {
	r.exchangesTotal.WithLabelValues(outcome).Inc()
	r.exchangeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordModelRequest records one model call by kind with its duration and result.
func (r *PrometheusRecorder) RecordModelRequest(kind string, duration time.Duration, failed bool) {
	result := "ok"
	if failed {
		result = "error"
	}
	r.modelRequestsTotal.WithLabelValues(kind, result).Inc()
	r.modelRequestDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordReplyParts records into how many Slack messages an answer was split.
func (r *PrometheusRecorder) RecordReplyParts(parts int) {
	r.replyParts.Observe(float64(parts))
}

var _ metrics.Recorder = (*PrometheusRecorder)(nil)
