package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
)

type stubExchangeRepository struct{}

func (stubExchangeRepository) Save(ctx context.Context, exchange *model.Exchange) error { return nil }

func (stubExchangeRepository) RecentByChannel(ctx context.Context, channelID string, limit int) ([]model.Exchange, error) {
	return nil, nil
}

func (stubExchangeRepository) ListAll(ctx context.Context) ([]model.Exchange, error) {
	return nil, nil
}

func (stubExchangeRepository) Close() error { return nil }

type nopLifecycle struct{}

func (nopLifecycle) Append(fx.Hook) {}

func TestNewScheduler_DisabledSchedulesNothing(t *testing.T) {
	cfg := config.NewConfig()

	s, err := NewScheduler(nopLifecycle{}, cfg, stubExchangeRepository{})
	require.NoError(t, err)
	assert.Nil(t, s.sink)
	assert.Nil(t, s.exporter)
}

func TestNewScheduler_RejectsNonPositiveInterval(t *testing.T) {
	for _, minutes := range []int{0, -5} {
		cfg := config.NewConfig()
		cfg.Bot.Export.Enabled = true
		cfg.Bot.Export.IntervalMinutes = minutes

		_, err := NewScheduler(nopLifecycle{}, cfg, stubExchangeRepository{})
		assert.Error(t, err, "interval_minutes=%d must be rejected", minutes)
	}
}

func TestNewScheduler_EnabledUsesConfiguredInterval(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Bot.Export.Enabled = true
	cfg.Bot.Export.IntervalMinutes = 1
	cfg.Bot.Export.Directory = t.TempDir()

	s, err := NewScheduler(nopLifecycle{}, cfg, stubExchangeRepository{})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.interval)
	assert.NotNil(t, s.exporter)
}
