package repository

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
)

func init() {
	RegisterDialector("sqlite", func(cfg config.DatastoreConfig) (gorm.Dialector, error) {
		// The SQLite dialector expects the file path directly.
		return sqlite.Open(cfg.Database), nil
	})

	RegisterDialector("postgres", func(cfg config.DatastoreConfig) (gorm.Dialector, error) {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.Sslmode)
		return postgres.Open(dsn), nil
	})

	RegisterDialector("mysql", func(cfg config.DatastoreConfig) (gorm.Dialector, error) {
		authPart := cfg.User
		if cfg.Password != "" {
			authPart = fmt.Sprintf("%s:%s", cfg.User, cfg.Password)
		}
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			authPart, cfg.Host, cfg.Port, cfg.Database)
		return mysql.Open(dsn), nil
	})
}
