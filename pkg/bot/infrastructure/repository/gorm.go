// Package repository persists the exchange log with GORM. Dialect support is
// pluggable through a dialector registry; sqlite, postgres and mysql register
// themselves on import.
package repository

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	config "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/config"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/logger"
)

const moduleName = "repository"

// DialectorFactory generates a gorm.Dialector from a DatastoreConfig.
type DialectorFactory func(cfg config.DatastoreConfig) (gorm.Dialector, error)

var (
	dialectorRegistry = make(map[string]DialectorFactory)
	dialectorMutex    sync.RWMutex
)

// RegisterDialector registers a DialectorFactory for the given datastore type.
func RegisterDialector(dbType string, factory DialectorFactory) {
	dialectorMutex.Lock()
	defer dialectorMutex.Unlock()
	if _, exists := dialectorRegistry[dbType]; exists {
		logger.Warnf("Dialector for type '%s' already registered. Overwriting.", dbType)
	}
	dialectorRegistry[dbType] = factory
}

// getDialectorFactory retrieves the DialectorFactory for the given type.
func getDialectorFactory(dbType string) (DialectorFactory, error) {
	dialectorMutex.RLock()
	defer dialectorMutex.RUnlock()
	factory, ok := dialectorRegistry[dbType]
	if !ok {
		return nil, exception.NewBotError(moduleName, fmt.Sprintf("no dialector registered for datastore type '%s'", dbType), nil, false)
	}
	return factory, nil
}

// OpenDatabase opens a GORM connection for the configured datastore and
// applies the pool settings.
func OpenDatabase(cfg config.DatastoreConfig) (*gorm.DB, error) {
	factory, err := getDialectorFactory(cfg.Type)
	if err != nil {
		return nil, err
	}
	dialector, err := factory(cfg)
	if err != nil {
		return nil, exception.NewBotErrorf(moduleName, "failed to create dialector for '%s'", cfg.Type, err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger()})
	if err != nil {
		return nil, exception.NewBotError(moduleName, "failed to open GORM connection", err, exception.IsTemporary(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, exception.NewBotError(moduleName, "failed to get underlying sql.DB", err, false)
	}

	sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdleConns)
	if cfg.Pool.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Pool.ConnMaxLifetimeMinutes) * time.Minute)
	}

	logger.Infof("Opened datastore connection (%s).", cfg.Type)
	return db, nil
}

// newGormLogger builds a gorm logger that redirects output to the application
// logger. SQL statements are logged at DEBUG, everything else at INFO.
func newGormLogger() gormlogger.Interface {
	return gormlogger.New(
		&gormWriter{},
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

type gormWriter struct{}

func (w *gormWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	if strings.Contains(msg, "SELECT") || strings.Contains(msg, "INSERT") || strings.Contains(msg, "UPDATE") || strings.Contains(msg, "DELETE") {
		logger.Debugf("[GORM] %s", msg)
	} else {
		logger.Infof("[GORM] %s", msg)
	}
}
