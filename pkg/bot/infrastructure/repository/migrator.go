package repository

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const migrationsTable = "schema_migrations"

// RunMigrations applies all pending schema migrations for the given dialect.
// The migration files are read from migrationFS under the directory named
// after the dialect (sqlite/postgres/mysql ship separate DDL).
func RunMigrations(db *gorm.DB, dbType string, migrationFS fs.FS) error {
	sqlDB, err := db.DB()
	if err != nil {
		return exception.NewBotError(moduleName, "failed to get underlying sql.DB", err, false)
	}

	sourceDriver, err := iofs.New(migrationFS, dbType)
	if err != nil {
		return exception.NewBotErrorf(moduleName, "failed to create iofs source driver for '%s'", dbType, err)
	}

	dbDriver, err := newDatabaseDriver(sqlDB, dbType)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, dbType, dbDriver)
	if err != nil {
		return exception.NewBotError(moduleName, "failed to create migrate instance", err, false)
	}
	defer m.Close()

	logger.Infof("Applying schema migrations (dialect: %s).", dbType)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return exception.NewBotErrorf(moduleName, "migration failed for dialect '%s'", dbType, err)
	}
	logger.Infof("Schema migrations up to date.")
	return nil
}

// newDatabaseDriver retrieves a migrate/v4 driver for the database type.
func newDatabaseDriver(sqlDB *sql.DB, dbType string) (database.Driver, error) {
	switch dbType {
	case "postgres":
		return migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{
			MigrationsTable: migrationsTable,
		})
	case "mysql":
		return migratemysql.WithInstance(sqlDB, &migratemysql.Config{
			MigrationsTable: migrationsTable,
		})
	case "sqlite":
		return migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{
			MigrationsTable: migrationsTable,
		})
	default:
		return nil, exception.NewBotError(moduleName, fmt.Sprintf("unsupported datastore type for migration: %s", dbType), nil, false)
	}
}
