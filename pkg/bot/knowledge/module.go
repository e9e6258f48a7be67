package knowledge

import (
	"context"
	"io/fs"

	"go.uber.org/fx"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// StoreParams defines the dependencies for NewDocumentStore.
type StoreParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	// DocumentsFS is the embedded documents file system supplied by main.
	DocumentsFS fs.FS `name:"documentsFS"`
}

// NewDocumentStore selects the document store backend from configuration.
func NewDocumentStore(p StoreParams) (ports.DocumentStore, error) {
	switch p.Cfg.Bot.Knowledge.Store {
	case "", "embed":
		logger.Infof("Knowledge: using embedded document store.")
		return NewEmbeddedStore(p.DocumentsFS), nil
	case "gcs":
		logger.Infof("Knowledge: using GCS document store (bucket: %s).", p.Cfg.Bot.Knowledge.GCS.Bucket)
		store, err := NewGCSStore(context.Background(), p.Cfg.Bot.Knowledge.GCS.Bucket, p.Cfg.Bot.Knowledge.GCS.Prefix)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return store.Close()
			},
		})
		return store, nil
	default:
		return nil, exception.NewBotErrorf("knowledge", "unsupported knowledge store type: '%s'", p.Cfg.Bot.Knowledge.Store)
	}
}

// Module is an Fx module that provides the catalog and the document store.
var Module = fx.Options(
	fx.Provide(NewCatalog),
	fx.Provide(NewDocumentStore),
)
