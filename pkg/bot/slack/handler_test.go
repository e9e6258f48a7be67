package slack

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	metrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/metrics"
	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
)

const testSigningSecret = "8f742231b10e8888abcd99yyyzzz85a5"

type capturingHandler struct {
	received chan model.IncomingMessage
}

func newCapturingHandler() *capturingHandler {
	return &capturingHandler{received: make(chan model.IncomingMessage, 1)}
}

func (h *capturingHandler) HandleMessage(ctx context.Context, msg model.IncomingMessage) {
	h.received <- msg
}

func newTestEventsHandler(h MessageHandler) *EventsHandler {
	cfg := config.NewConfig()
	cfg.Bot.Slack.SigningSecret = testSigningSecret
	return NewEventsHandler(cfg, h, metrics.NewNoopRecorder())
}

// signedRequest builds a POST with a valid Slack signature for the body.
func signedRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))

	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestEventsHandler_RejectsNonPost(t *testing.T) {
	h := newTestEventsHandler(newCapturingHandler())
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slack/events", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestEventsHandler_RejectsInvalidSignature(t *testing.T) {
	h := newTestEventsHandler(newCapturingHandler())
	body := `{"type":"url_verification","challenge":"abc"}`

	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", time.Now().Unix()))
	req.Header.Set("X-Slack-Signature", "v0=deadbeef")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventsHandler_AnswersURLVerificationChallenge(t *testing.T) {
	h := newTestEventsHandler(newCapturingHandler())
	body := `{"type":"url_verification","token":"tok","challenge":"challenge-value"}`
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, signedRequest(t, body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "challenge-value", rec.Body.String())
}

func TestEventsHandler_DispatchesAppMention(t *testing.T) {
	capturing := newCapturingHandler()
	h := newTestEventsHandler(capturing)
	body := `{
		"type": "event_callback",
		"event": {
			"type": "app_mention",
			"user": "U456",
			"text": "<@U123BOT> ゼミはいつですか",
			"ts": "1700000000.000100",
			"channel": "C0001"
		}
	}`
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, signedRequest(t, body))
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case msg := <-capturing.received:
		assert.Equal(t, "app_mention", msg.Type)
		assert.Equal(t, "C0001", msg.ChannelID)
		assert.Equal(t, "U456", msg.UserID)
		assert.Equal(t, "<@U123BOT> ゼミはいつですか", msg.Text)
		assert.Equal(t, "1700000000.000100", msg.TS)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestEventsHandler_DispatchesDirectMessage(t *testing.T) {
	capturing := newCapturingHandler()
	h := newTestEventsHandler(capturing)
	body := `{
		"type": "event_callback",
		"event": {
			"type": "message",
			"channel_type": "im",
			"user": "U456",
			"text": "こんにちは",
			"ts": "1700000000.000200",
			"channel": "D0001"
		}
	}`
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, signedRequest(t, body))
	require.Equal(t, http.StatusOK, rec.Code)

	select {
	case msg := <-capturing.received:
		assert.Equal(t, "message", msg.Type)
		assert.Equal(t, "im", msg.ChannelType)
		assert.Equal(t, "D0001", msg.ChannelID)
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}
}

func TestEventsHandler_AcknowledgesUnknownEvents(t *testing.T) {
	h := newTestEventsHandler(newCapturingHandler())
	body := `{"type":"event_callback","event":{"type":"reaction_added"}}`
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, signedRequest(t, body))

	// Unknown inner events are acknowledged so Slack does not retry delivery.
	assert.Equal(t, http.StatusOK, rec.Code)
}
