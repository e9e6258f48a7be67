// Package ports defines the abstract interfaces between the bot engine and
// its infrastructure: the generative model, the Slack Web API, the document
// store and the exchange datastore.
package ports

import (
	"context"

	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
)

// Assistant generates text from a prompt using the underlying model.
type Assistant interface {
	// Generate returns the model's reply to the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// DocumentStore reads knowledge document bodies by filename.
type DocumentStore interface {
	// Read returns the full text of the named document.
	Read(ctx context.Context, filename string) (string, error)
}

// ChatService abstracts the Slack Web API operations the engine needs.
type ChatService interface {
	// PostMessage posts text to a channel, threaded on threadTS when non-empty.
	// It returns the timestamp of the posted message.
	PostMessage(ctx context.Context, channelID, threadTS, text string) (string, error)
	// UpdateMessage replaces the text of an existing message.
	UpdateMessage(ctx context.Context, channelID, ts, text string) error
	// DeleteMessage deletes an existing message.
	DeleteMessage(ctx context.Context, channelID, ts string) error
}

// ExchangeRepository persists completed exchanges.
type ExchangeRepository interface {
	// Save appends an exchange to the log.
	Save(ctx context.Context, exchange *model.Exchange) error
	// RecentByChannel returns up to limit most recent exchanges in a channel,
	// newest first.
	RecentByChannel(ctx context.Context, channelID string, limit int) ([]model.Exchange, error)
	// ListAll returns all exchanges ordered by creation time, oldest first.
	// Used by the Parquet exporter.
	ListAll(ctx context.Context) ([]model.Exchange, error)
	// Close releases the underlying connection.
	Close() error
}
