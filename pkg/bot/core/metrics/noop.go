package metrics

import (
	"context"
	"time"
)

// NoopRecorder is a Recorder implementation that discards all metrics.
type NoopRecorder struct{}

// NewNoopRecorder creates a new instance of NoopRecorder.
func NewNoopRecorder() Recorder {
	return &NoopRecorder{}
}

func (r *NoopRecorder) RecordEventReceived(eventType string)                         {}
func (r *NoopRecorder) RecordExchange(outcome string, duration time.Duration)        {}
func (r *NoopRecorder) RecordModelRequest(kind string, d time.Duration, failed bool) {}
func (r *NoopRecorder) RecordReplyParts(parts int)                                   {}

var _ Recorder = (*NoopRecorder)(nil)

// NoopTracer is a Tracer implementation that produces no spans.
type NoopTracer struct{}

// NewNoopTracer creates a new instance of NoopTracer.
func NewNoopTracer() Tracer {
	return &NoopTracer{}
}

func (t *NoopTracer) StartSpan(ctx context.Context, name string) (context.Context, func(error)) {
	return ctx, func(error) {}
}

var _ Tracer = (*NoopTracer)(nil)
