// Package model defines the core domain models of the bot.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is one entry of the knowledge catalog.
type Document struct {
	// Keyword is the topic name the classifier answers with.
	Keyword string
	// Filename is the document file within the document store.
	Filename string
	// Description tells the classifier what the document covers.
	Description string
}

// Outcome classifies how an exchange was answered.
type Outcome string

const (
	// OutcomeGrounded means the answer was grounded on a catalog document.
	OutcomeGrounded Outcome = "grounded"
	// OutcomeFallback means the answer came from general model knowledge.
	OutcomeFallback Outcome = "fallback"
	// OutcomeError means the pipeline failed and an apology was posted.
	OutcomeError Outcome = "error"
)

// String returns the string representation of the Outcome.
func (o Outcome) String() string {
	return string(o)
}

// IncomingMessage is the normalized form of a Slack app_mention or message event.
type IncomingMessage struct {
	// Type is the Slack event type ("app_mention" or "message").
	Type string
	// ChannelID is the channel the event was posted in.
	ChannelID string
	// ChannelType is the Slack channel type ("im" for direct messages).
	ChannelType string
	// UserID is the posting user.
	UserID string
	// Text is the raw message text.
	Text string
	// TS is the message timestamp (Slack message ID).
	TS string
	// ThreadTS is the parent thread timestamp, empty outside threads.
	ThreadTS string
	// BotID is non-empty when the message was posted by a bot.
	BotID string
}

// ReplyThreadTS returns the timestamp replies should be threaded on:
// the existing thread if the message is in one, otherwise the message itself.
func (m IncomingMessage) ReplyThreadTS() string {
	if m.ThreadTS != "" {
		return m.ThreadTS
	}
	return m.TS
}

// Exchange is one completed question/answer interaction.
type Exchange struct {
	// ID is a unique identifier for the exchange.
	ID string
	// ChannelID is the Slack channel the exchange took place in.
	ChannelID string
	// ThreadTS is the thread the reply was posted to.
	ThreadTS string
	// UserID is the asking user.
	UserID string
	// Question is the user's question after mention stripping.
	Question string
	// Topic is the classified topic keyword, empty for the fallback path.
	Topic string
	// SourceFile is the grounding document filename, empty for the fallback path.
	SourceFile string
	// Answer is the posted answer text.
	Answer string
	// Outcome records how the exchange was answered.
	Outcome Outcome
	// LatencyMS is the end-to-end handling duration in milliseconds.
	LatencyMS int64
	// CreatedAt is the completion time of the exchange.
	CreatedAt time.Time
}

// NewExchange creates a new Exchange with a generated ID and creation time.
func NewExchange(msg IncomingMessage) *Exchange {
	return &Exchange{
		ID:        uuid.New().String(),
		ChannelID: msg.ChannelID,
		ThreadTS:  msg.ReplyThreadTS(),
		UserID:    msg.UserID,
		CreatedAt: time.Now().UTC(),
	}
}
