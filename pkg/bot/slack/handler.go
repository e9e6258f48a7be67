package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	metrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/metrics"
	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// maxEventBodyBytes bounds the accepted request body size.
const maxEventBodyBytes = 1 << 20

// MessageHandler processes a normalized incoming message. Implementations
// must be safe for concurrent use; the events handler calls it from a
// goroutine per event.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg model.IncomingMessage)
}

// EventsHandler is the HTTP handler for the Slack Events API endpoint.
// It verifies request signatures, answers URL verification challenges, and
// dispatches app_mention/message callbacks asynchronously.
type EventsHandler struct {
	signingSecret string
	handler       MessageHandler
	recorder      metrics.Recorder
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(cfg *config.Config, handler MessageHandler, recorder metrics.Recorder) *EventsHandler {
	return &EventsHandler{
		signingSecret: cfg.Bot.Slack.SigningSecret,
		handler:       handler,
		recorder:      recorder,
	}
}

// ServeHTTP implements http.Handler.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBodyBytes))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	if err := h.verifySignature(r.Header, body); err != nil {
		logger.Warnf("Rejected Slack event with invalid signature: %v", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logger.Warnf("Failed to parse Slack event: %v", err)
		http.Error(w, "failed to parse event", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "failed to parse challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))

	case slackevents.CallbackEvent:
		h.dispatchCallback(event.InnerEvent)
		w.WriteHeader(http.StatusOK)

	default:
		// Unknown outer event types are acknowledged so Slack does not retry.
		w.WriteHeader(http.StatusOK)
	}
}

// verifySignature checks the request signature against the signing secret.
func (h *EventsHandler) verifySignature(header http.Header, body []byte) error {
	verifier, err := slackapi.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return err
	}
	if _, err := verifier.Write(body); err != nil {
		return err
	}
	return verifier.Ensure()
}

// dispatchCallback normalizes a callback event and hands it to the message
// handler in a goroutine. Slack requires a 200 within 3 seconds; the model
// call takes longer, so processing never blocks the response.
func (h *EventsHandler) dispatchCallback(inner slackevents.EventsAPIInnerEvent) {
	var msg model.IncomingMessage

	switch ev := inner.Data.(type) {
	case *slackevents.AppMentionEvent:
		msg = model.IncomingMessage{
			Type:      "app_mention",
			ChannelID: ev.Channel,
			UserID:    ev.User,
			Text:      ev.Text,
			TS:        ev.TimeStamp,
			ThreadTS:  ev.ThreadTimeStamp,
			BotID:     ev.BotID,
		}
	case *slackevents.MessageEvent:
		msg = model.IncomingMessage{
			Type:        "message",
			ChannelID:   ev.Channel,
			ChannelType: ev.ChannelType,
			UserID:      ev.User,
			Text:        ev.Text,
			TS:          ev.TimeStamp,
			ThreadTS:    ev.ThreadTimeStamp,
			BotID:       ev.BotID,
		}
	default:
		logger.Debugf("Ignoring unsupported inner event type: %s", inner.Type)
		return
	}

	h.recorder.RecordEventReceived(msg.Type)

	go h.handler.HandleMessage(context.Background(), msg)
}

var _ http.Handler = (*EventsHandler)(nil)
