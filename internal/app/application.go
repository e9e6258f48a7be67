// Package app assembles the bot application from its Fx modules.
package app

import (
	"io/fs"

	"go.uber.org/fx"

	"github.com/bot25-netizen/SlackChatBot/pkg/bot/ai"
	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/engine"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/export"
	inframetrics "github.com/bot25-netizen/SlackChatBot/pkg/bot/infrastructure/metrics"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/infrastructure/repository"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/knowledge"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/server"
	slackutil "github.com/bot25-netizen/SlackChatBot/pkg/bot/slack"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// GetApplicationOptions assembles the Fx options of the application.
// documentsFS and migrationsFS are the embedded resource trees supplied by
// the entry point, rooted at the documents and migrations directories.
func GetApplicationOptions(envFilePath string, embeddedConfig config.EmbeddedConfig, documentsFS fs.FS, migrationsFS fs.FS) []fx.Option {
	return []fx.Option{
		fx.Supply(
			embeddedConfig,
			fx.Annotate(envFilePath, fx.ResultTags(`name:"envFilePath"`)),
			fx.Annotate(documentsFS, fx.As(new(fs.FS)), fx.ResultTags(`name:"documentsFS"`)),
			fx.Annotate(migrationsFS, fx.As(new(fs.FS)), fx.ResultTags(`name:"migrationsFS"`)),
		),

		logger.Module,
		config.Module,
		inframetrics.Module,

		knowledge.Module,
		ai.Module,
		slackutil.Module,
		repository.Module,
		engine.Module,
		export.Module,
		server.Module,

		// Instantiating the server and the export scheduler registers their
		// lifecycle hooks; nothing else depends on them.
		fx.Invoke(startServices),
	}
}

// RunApplication sets up and runs the bot application using uber-fx.
// fx handles SIGINT/SIGTERM itself and runs the OnStop hooks on shutdown.
func RunApplication(envFilePath string, embeddedConfig config.EmbeddedConfig, documentsFS fs.FS, migrationsFS fs.FS) {
	app := fx.New(GetApplicationOptions(envFilePath, embeddedConfig, documentsFS, migrationsFS)...)

	app.Run()

	if app.Err() != nil {
		logger.Fatalf("Application run failed: %v", app.Err())
	}
}

// startServices forces construction of the components that hold lifecycle hooks.
func startServices(srv *server.Server, scheduler *export.Scheduler) {
	logger.Infof("Application components initialized.")
}
