package repository

import (
	"context"
	"io/fs"

	"go.uber.org/fx"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// Params defines the dependencies of the exchange repository.
type Params struct {
	fx.In

	Lifecycle    fx.Lifecycle
	Cfg          *config.Config
	MigrationsFS fs.FS `name:"migrationsFS"`
}

// NewExchangeRepository opens the configured datastore, applies pending
// schema migrations and returns the exchange repository. The connection is
// closed on application shutdown.
func NewExchangeRepository(p Params) (ports.ExchangeRepository, error) {
	db, err := OpenDatabase(p.Cfg.Bot.Datastore)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db, p.Cfg.Bot.Datastore.Type, p.MigrationsFS); err != nil {
		return nil, err
	}

	repo := NewGormExchangeRepository(db)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Infof("Closing datastore connection.")
			return repo.Close()
		},
	})
	return repo, nil
}

// Module is an Fx module that provides the exchange repository.
var Module = fx.Options(
	fx.Provide(NewExchangeRepository),
)
