// Package slack provides the Slack Web API client wrapper and the Events API
// HTTP handler.
package slack

import (
	"context"
	"time"

	slackapi "github.com/slack-go/slack"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const moduleName = "slack"

// Client implements ports.ChatService over the Slack Web API.
type Client struct {
	api       *slackapi.Client
	botUserID string
}

// NewClient creates a new Client and resolves the bot's own user ID via
// auth.test. A failed auth.test is logged but not fatal; mention stripping
// then degrades (the query keeps the mention token).
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.Bot.Slack.BotToken == "" {
		return nil, exception.NewBotError(moduleName, "slack.bot_token (SLACK_BOT_TOKEN) is not set", nil, false)
	}

	api := slackapi.New(cfg.Bot.Slack.BotToken)
	c := &Client{api: api}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	auth, err := api.AuthTestContext(ctx)
	if err != nil {
		logger.Warnf("Slack auth.test failed, bot user ID unknown: %v", err)
		return c, nil
	}
	c.botUserID = auth.UserID
	logger.Infof("Slack client authenticated as '%s' (user ID: %s).", auth.User, auth.UserID)
	return c, nil
}

// BotUserID returns the bot's own user ID, or "" when auth.test failed.
func (c *Client) BotUserID() string {
	return c.botUserID
}

// PostMessage posts text to a channel, threaded on threadTS when non-empty.
func (c *Client) PostMessage(ctx context.Context, channelID, threadTS, text string) (string, error) {
	opts := []slackapi.MsgOption{slackapi.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slackapi.MsgOptionTS(threadTS))
	}
	_, ts, err := c.api.PostMessageContext(ctx, channelID, opts...)
	if err != nil {
		return "", exception.NewBotError(moduleName, "chat.postMessage failed", err, exception.IsTemporary(err))
	}
	return ts, nil
}

// UpdateMessage replaces the text of an existing message.
func (c *Client) UpdateMessage(ctx context.Context, channelID, ts, text string) error {
	_, _, _, err := c.api.UpdateMessageContext(ctx, channelID, ts, slackapi.MsgOptionText(text, false))
	if err != nil {
		return exception.NewBotError(moduleName, "chat.update failed", err, exception.IsTemporary(err))
	}
	return nil
}

// DeleteMessage deletes an existing message.
func (c *Client) DeleteMessage(ctx context.Context, channelID, ts string) error {
	_, _, err := c.api.DeleteMessageContext(ctx, channelID, ts)
	if err != nil {
		return exception.NewBotError(moduleName, "chat.delete failed", err, exception.IsTemporary(err))
	}
	return nil
}

var _ ports.ChatService = (*Client)(nil)
