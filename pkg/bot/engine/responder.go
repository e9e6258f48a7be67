// Package engine implements the question answering pipeline: it consumes
// normalized Slack events, classifies questions against the knowledge
// catalog, and posts grounded or general-knowledge answers.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
	metrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/metrics"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"

	"github.com/bot25-netizen/SlackChatBot/pkg/bot/ai"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/knowledge"
	slackutil "github.com/bot25-netizen/SlackChatBot/pkg/bot/slack"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const moduleName = "engine"

// User-visible status and error texts.
const (
	thinkingText       = "🤔 どの資料を読めばいいか考えています..."
	readingTextFormat  = "🤔 `%s` を読んでいます..."
	fallbackNoticeText = "🤔 うーん、関連する資料は見つからなかったけど、僕の知識で答えてみるね．"
	apologyTextFormat  = "申し訳ありません．エラーが発生しました: %s"
)

// handleTimeout bounds the end-to-end handling of one event, including
// model retries.
const handleTimeout = 5 * time.Minute

// recentContextLimit caps how many prior exchanges are looked up per channel.
const recentContextLimit = 5

// Responder handles incoming mentions and direct messages.
type Responder struct {
	catalog   *knowledge.Catalog
	store     ports.DocumentStore
	assistant ports.Assistant
	chat      ports.ChatService
	exchanges ports.ExchangeRepository
	recorder  metrics.Recorder
	tracer    metrics.Tracer
	botUserID string
}

// NewResponder creates a new Responder.
func NewResponder(
	catalog *knowledge.Catalog,
	store ports.DocumentStore,
	assistant ports.Assistant,
	chat ports.ChatService,
	exchanges ports.ExchangeRepository,
	recorder metrics.Recorder,
	tracer metrics.Tracer,
	botUserID string,
) *Responder {
	return &Responder{
		catalog:   catalog,
		store:     store,
		assistant: assistant,
		chat:      chat,
		exchanges: exchanges,
		recorder:  recorder,
		tracer:    tracer,
		botUserID: botUserID,
	}
}

// HandleMessage processes one normalized Slack event. It is called from a
// goroutine per event and never returns an error to the caller; failures are
// surfaced to the user as an apology in the thread.
func (r *Responder) HandleMessage(ctx context.Context, msg model.IncomingMessage) {
	// Ignore the bot's own posts and those of other bots.
	if msg.BotID != "" {
		return
	}
	// Only direct messages and mentions are handled.
	if msg.ChannelType != "im" && msg.Type != "app_mention" {
		return
	}

	query := r.extractQuery(msg)
	if query == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	var handleErr error
	ctx, endSpan := r.tracer.StartSpan(ctx, "bot.handle_message")
	defer func() { endSpan(handleErr) }()

	start := time.Now()

	thinkingTS, err := r.chat.PostMessage(ctx, msg.ChannelID, msg.ReplyThreadTS(), thinkingText)
	if err != nil {
		logger.Errorf("Failed to post thinking message in channel %s: %v", msg.ChannelID, err)
		handleErr = err
		return
	}

	exchange := model.NewExchange(msg)
	exchange.Question = query

	if prior, err := r.exchanges.RecentByChannel(ctx, msg.ChannelID, recentContextLimit); err != nil {
		logger.Warnf("Failed to load recent exchanges for channel %s: %v", msg.ChannelID, err)
	} else if len(prior) > 0 {
		logger.Debugf("Channel %s has %d recent exchange(s).", msg.ChannelID, len(prior))
	}

	if err := r.respond(ctx, msg, query, thinkingTS, exchange); err != nil {
		logger.Errorf("Failed to answer question in channel %s: %v", msg.ChannelID, err)
		handleErr = err
		exchange.Outcome = model.OutcomeError

		apology := fmt.Sprintf(apologyTextFormat, exception.ExtractErrorMessage(err))
		if updateErr := r.chat.UpdateMessage(ctx, msg.ChannelID, thinkingTS, apology); updateErr != nil {
			logger.Errorf("Failed to update thinking message with apology: %v", updateErr)
		}
	}

	duration := time.Since(start)
	exchange.LatencyMS = duration.Milliseconds()
	r.recorder.RecordExchange(exchange.Outcome.String(), duration)

	// A datastore failure must not fail the user-visible reply.
	if err := r.exchanges.Save(ctx, exchange); err != nil {
		logger.Errorf("Failed to persist exchange %s: %v", exchange.ID, err)
	}
}

// respond runs classification and the grounded or fallback answer path.
// The exchange is filled in as a side effect.
func (r *Responder) respond(ctx context.Context, msg model.IncomingMessage, query, thinkingTS string, exchange *model.Exchange) error {
	topic, err := r.classify(ctx, query)
	if err != nil {
		return err
	}

	doc, ok := r.catalog.Lookup(topic)
	if !ok {
		return r.answerFromGeneralKnowledge(ctx, msg, query, thinkingTS, exchange)
	}
	return r.answerFromDocument(ctx, msg, query, thinkingTS, doc, exchange)
}

// classify asks the model which catalog topic matches the question.
func (r *Responder) classify(ctx context.Context, query string) (string, error) {
	ctx, endSpan := r.tracer.StartSpan(ctx, "bot.classify")
	start := time.Now()
	raw, err := r.assistant.Generate(ctx, ai.ClassificationPrompt(query, r.catalog.Documents()))
	r.recorder.RecordModelRequest("classify", time.Since(start), err != nil)
	endSpan(err)
	if err != nil {
		return "", exception.NewBotError(moduleName, "topic classification failed", err, false)
	}

	topic := ai.NormalizeTopic(raw)
	logger.Debugf("Classified question as topic '%s'.", topic)
	return topic, nil
}

// answerFromDocument produces an answer grounded strictly on the selected
// document: the thinking message is updated while the document is read,
// deleted once the answer is ready, and the answer is posted to the thread
// in numbered parts when it exceeds the message limit.
func (r *Responder) answerFromDocument(ctx context.Context, msg model.IncomingMessage, query, thinkingTS string, doc model.Document, exchange *model.Exchange) error {
	if err := r.chat.UpdateMessage(ctx, msg.ChannelID, thinkingTS, fmt.Sprintf(readingTextFormat, doc.Filename)); err != nil {
		logger.Warnf("Failed to update thinking message: %v", err)
	}

	documentText, err := r.store.Read(ctx, doc.Filename)
	if err != nil {
		return err
	}

	ctx, endSpan := r.tracer.StartSpan(ctx, "bot.answer")
	start := time.Now()
	answer, err := r.assistant.Generate(ctx, ai.GroundedAnswerPrompt(query, doc.Filename, documentText))
	r.recorder.RecordModelRequest("answer", time.Since(start), err != nil)
	endSpan(err)
	if err != nil {
		return err
	}

	if err := r.chat.DeleteMessage(ctx, msg.ChannelID, thinkingTS); err != nil {
		logger.Warnf("Failed to delete thinking message: %v", err)
	}

	parts := slackutil.FormatParts(slackutil.SplitMessage(answer, slackutil.MessageLimit))
	r.recorder.RecordReplyParts(len(parts))
	for _, part := range parts {
		if _, err := r.chat.PostMessage(ctx, msg.ChannelID, msg.ReplyThreadTS(), part); err != nil {
			return err
		}
	}

	exchange.Topic = doc.Keyword
	exchange.SourceFile = doc.Filename
	exchange.Answer = answer
	exchange.Outcome = model.OutcomeGrounded
	return nil
}

// answerFromGeneralKnowledge produces a general-knowledge answer and updates
// the thinking message in place with it.
func (r *Responder) answerFromGeneralKnowledge(ctx context.Context, msg model.IncomingMessage, query, thinkingTS string, exchange *model.Exchange) error {
	if err := r.chat.UpdateMessage(ctx, msg.ChannelID, thinkingTS, fallbackNoticeText); err != nil {
		logger.Warnf("Failed to update thinking message: %v", err)
	}

	ctx, endSpan := r.tracer.StartSpan(ctx, "bot.fallback")
	start := time.Now()
	answer, err := r.assistant.Generate(ctx, ai.FallbackPrompt(query))
	r.recorder.RecordModelRequest("fallback", time.Since(start), err != nil)
	endSpan(err)
	if err != nil {
		return err
	}

	if err := r.chat.UpdateMessage(ctx, msg.ChannelID, thinkingTS, answer); err != nil {
		return err
	}

	exchange.Answer = answer
	exchange.Outcome = model.OutcomeFallback
	return nil
}

// extractQuery strips the bot mention from mention events and trims space.
func (r *Responder) extractQuery(msg model.IncomingMessage) string {
	text := msg.Text
	if msg.Type == "app_mention" && r.botUserID != "" {
		text = strings.ReplaceAll(text, fmt.Sprintf("<@%s>", r.botUserID), "")
	}
	return strings.TrimSpace(text)
}

var _ slackutil.MessageHandler = (*Responder)(nil)
