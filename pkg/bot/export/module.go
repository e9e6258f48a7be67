package export

import (
	"context"
	"time"

	"go.uber.org/fx"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// Scheduler runs the exporter on a fixed interval.
type Scheduler struct {
	exporter *ParquetExporter
	sink     Sink
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates the export scheduler and registers its lifecycle
// hooks. When export is disabled in the configuration, nothing is scheduled
// and no sink is created.
func NewScheduler(lc fx.Lifecycle, cfg *config.Config, repo ports.ExchangeRepository) (*Scheduler, error) {
	if !cfg.Bot.Export.Enabled {
		logger.Debugf("Parquet export is disabled.")
		return &Scheduler{}, nil
	}

	// A zero interval would panic in time.NewTicker once the loop starts.
	if cfg.Bot.Export.IntervalMinutes <= 0 {
		return nil, exception.NewBotErrorf(moduleName, "export.interval_minutes must be positive, got %d", cfg.Bot.Export.IntervalMinutes)
	}

	sink, err := NewSink(cfg.Bot.Export)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		exporter: NewParquetExporter(repo, sink, cfg.Bot.Export),
		sink:     sink,
		interval: time.Duration(cfg.Bot.Export.IntervalMinutes) * time.Minute,
		done:     make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			runCtx, cancel := context.WithCancel(context.Background())
			s.cancel = cancel
			go s.run(runCtx)
			logger.Infof("Parquet export scheduled every %s.", s.interval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.cancel()
			select {
			case <-s.done:
			case <-ctx.Done():
				return ctx.Err()
			}
			return s.sink.Close()
		},
	})
	return s, nil
}

// run executes the export loop until the context is cancelled. A final export
// is attempted on shutdown so the last interval is not lost.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.exporter.Export(ctx); err != nil {
				logger.Errorf("Periodic Parquet export failed: %v", err)
			}
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := s.exporter.Export(flushCtx); err != nil {
				logger.Errorf("Final Parquet export failed: %v", err)
			}
			cancel()
			return
		}
	}
}

// Module is an Fx module that provides the export scheduler.
var Module = fx.Options(
	fx.Provide(NewScheduler),
)
