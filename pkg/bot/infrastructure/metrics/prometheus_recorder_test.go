package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_CountsEvents(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordEventReceived("app_mention")
	r.RecordEventReceived("app_mention")
	r.RecordEventReceived("message")

	assert.Equal(t, float64(2), testutil.ToFloat64(r.eventsReceived.WithLabelValues("app_mention")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.eventsReceived.WithLabelValues("message")))
}

func TestPrometheusRecorder_CountsExchangesByOutcome(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordExchange("grounded", 2*time.Second)
	r.RecordExchange("grounded", time.Second)
	r.RecordExchange("error", 500*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.exchangesTotal.WithLabelValues("grounded")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.exchangesTotal.WithLabelValues("error")))
}

func TestPrometheusRecorder_CountsModelRequestsByResult(t *testing.T) {
	r := NewPrometheusRecorder()

	r.RecordModelRequest("classify", 100*time.Millisecond, false)
	r.RecordModelRequest("classify", 100*time.Millisecond, true)
	r.RecordModelRequest("answer", time.Second, false)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.modelRequestsTotal.WithLabelValues("classify", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.modelRequestsTotal.WithLabelValues("classify", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.modelRequestsTotal.WithLabelValues("answer", "ok")))
}

func TestPrometheusRecorder_HandlerServesMetrics(t *testing.T) {
	r := NewPrometheusRecorder()
	r.RecordEventReceived("app_mention")
	r.RecordReplyParts(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "bot_events_received_total")
	assert.Contains(t, body, "bot_reply_parts")
	// Go runtime collectors are registered as well.
	assert.Contains(t, body, "go_goroutines")
}
