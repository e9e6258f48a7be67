package main

import (
	"embed"
	"io/fs"
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bot25-netizen/SlackChatBot/internal/app"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

// embeddedConfig embeds the content of the application's YAML configuration file.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

// documentsFS is an embedded file system containing the knowledge documents
// served by the embedded document store.
//
//go:embed all:resources/documents
var documentsFS embed.FS

// migrationsFS is an embedded file system containing the database migration
// files, one directory per dialect.
//
//go:embed all:resources/migrations
var migrationsFS embed.FS

// main is the entry point of the application.
func main() {
	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	documents, err := fs.Sub(documentsFS, "resources/documents")
	if err != nil {
		logger.Fatalf("Failed to open embedded documents: %v", err)
	}
	migrations, err := fs.Sub(migrationsFS, "resources/migrations")
	if err != nil {
		logger.Fatalf("Failed to open embedded migrations: %v", err)
	}

	app.RunApplication(envFilePath, embeddedConfig, documents, migrations)
	os.Exit(0)
}
