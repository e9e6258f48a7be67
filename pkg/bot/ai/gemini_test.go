package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
)

// fastRetry keeps the backoff waits in the microsecond range.
func fastRetry(maxAttempts int) config.RetryConfig {
	return config.RetryConfig{
		MaxAttempts:     maxAttempts,
		InitialInterval: 1,
		MaxInterval:     5,
		Factor:          2.0,
	}
}

func TestGenerate_WithoutAPIKeyReturnsApology(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Bot.Gemini.APIKey = ""

	a, closeFn, err := NewGeminiAssistant(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, closeFn)

	text, err := a.Generate(context.Background(), "ゼミはいつですか")
	require.NoError(t, err)
	assert.Equal(t, ApologyNoAPIKey, text)
}

func TestGenerate_RetriesTemporaryErrors(t *testing.T) {
	calls := 0
	a := &GeminiAssistant{
		retry: fastRetry(3),
		call: func(ctx context.Context, prompt string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection refused")
			}
			return "answer", nil
		},
	}

	text, err := a.Generate(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, 3, calls)
}

func TestGenerate_DoesNotRetryPermanentErrors(t *testing.T) {
	calls := 0
	a := &GeminiAssistant{
		retry: fastRetry(3),
		call: func(ctx context.Context, prompt string) (string, error) {
			calls++
			return "", errors.New("invalid argument")
		},
	}

	_, err := a.Generate(context.Background(), "question")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, exception.IsTemporary(err))
}

func TestGenerate_StopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	a := &GeminiAssistant{
		retry: fastRetry(3),
		call: func(ctx context.Context, prompt string) (string, error) {
			calls++
			return "", errors.New("rate limit exceeded")
		},
	}

	_, err := a.Generate(context.Background(), "question")
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
	// The final error keeps the temporary classification of the cause.
	assert.True(t, exception.IsTemporary(err))
}

func TestGenerate_ZeroMaxAttemptsStillCallsOnce(t *testing.T) {
	calls := 0
	a := &GeminiAssistant{
		retry: config.RetryConfig{},
		call: func(ctx context.Context, prompt string) (string, error) {
			calls++
			return "answer", nil
		},
	}

	text, err := a.Generate(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", text)
	assert.Equal(t, 1, calls)
}

func TestNextInterval(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextInterval(time.Second, 2.0, 30*time.Second))
	assert.Equal(t, 30*time.Second, nextInterval(20*time.Second, 2.0, 30*time.Second))
	// No cap when max is zero.
	assert.Equal(t, 4*time.Second, nextInterval(2*time.Second, 2.0, 0))
}
