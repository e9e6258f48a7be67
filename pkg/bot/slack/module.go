package slack

import (
	"go.uber.org/fx"

	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
)

// Module is an Fx module that provides the Slack client and events handler.
var Module = fx.Options(
	fx.Provide(NewClient),
	fx.Provide(func(c *Client) ports.ChatService { return c }),
	fx.Provide(NewEventsHandler),
)
