// Package metrics defines the abstract observability interfaces of the bot.
// Concrete implementations live under infrastructure/metrics.
package metrics

import (
	"context"
	"time"
)

// Recorder records bot metrics.
type Recorder interface {
	// RecordEventReceived counts an incoming Slack event by type.
	RecordEventReceived(eventType string)
	// RecordExchange records a completed exchange with its outcome and duration.
	RecordExchange(outcome string, duration time.Duration)
	// RecordModelRequest records one model call by kind ("classify", "answer",
	// "fallback") with its duration and whether it failed.
	RecordModelRequest(kind string, duration time.Duration, failed bool)
	// RecordReplyParts records into how many Slack messages an answer was split.
	RecordReplyParts(parts int)
}

// Tracer starts spans around the bot pipeline.
type Tracer interface {
	// StartSpan starts a span with the given name. The returned function ends
	// the span, recording err when non-nil.
	StartSpan(ctx context.Context, name string) (context.Context, func(err error))
}
