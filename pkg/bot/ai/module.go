package ai

import (
	"context"

	"go.uber.org/fx"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
)

// AssistantParams defines the dependencies for the assistant provider.
type AssistantParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Cfg       *config.Config
}

// newAssistant constructs the Gemini assistant and registers the client
// close on the Fx lifecycle.
func newAssistant(p AssistantParams) (ports.Assistant, error) {
	assistant, closeFn, err := NewGeminiAssistant(context.Background(), p.Cfg)
	if err != nil {
		return nil, err
	}
	if closeFn != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closeFn()
			},
		})
	}
	return assistant, nil
}

// Module is an Fx module that provides the Assistant implementation.
var Module = fx.Options(
	fx.Provide(newAssistant),
)
