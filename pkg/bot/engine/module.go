package engine

import (
	"go.uber.org/fx"

	metrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/metrics"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"

	"github.com/bot25-netizen/SlackChatBot/pkg/bot/knowledge"
	slackutil "github.com/bot25-netizen/SlackChatBot/pkg/bot/slack"
)

// ResponderParams defines the dependencies of the Responder.
type ResponderParams struct {
	fx.In

	Catalog   *knowledge.Catalog
	Store     ports.DocumentStore
	Assistant ports.Assistant
	Chat      ports.ChatService
	Exchanges ports.ExchangeRepository
	Recorder  metrics.Recorder
	Tracer    metrics.Tracer
	Client    *slackutil.Client
}

func newResponder(p ResponderParams) *Responder {
	return NewResponder(p.Catalog, p.Store, p.Assistant, p.Chat, p.Exchanges, p.Recorder, p.Tracer, p.Client.BotUserID())
}

// Module is an Fx module that provides the answering pipeline.
var Module = fx.Options(
	fx.Provide(newResponder),
	fx.Provide(func(r *Responder) slackutil.MessageHandler { return r }),
)
