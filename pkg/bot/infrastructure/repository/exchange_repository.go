package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
	ports "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/ports"
	"github.com/bot25-netizen/SlackChatBot/pkg/bot/support/util/exception"
)

// exchangeRecord is the GORM entity backing the exchanges table.
type exchangeRecord struct {
	ID         string    `gorm:"column:id;primaryKey;size:36"`
	ChannelID  string    `gorm:"column:channel_id;index:idx_exchanges_channel_created,priority:1"`
	ThreadTS   string    `gorm:"column:thread_ts"`
	UserID     string    `gorm:"column:user_id"`
	Question   string    `gorm:"column:question"`
	Topic      string    `gorm:"column:topic"`
	SourceFile string    `gorm:"column:source_file"`
	Answer     string    `gorm:"column:answer"`
	Outcome    string    `gorm:"column:outcome"`
	LatencyMS  int64     `gorm:"column:latency_ms"`
	CreatedAt  time.Time `gorm:"column:created_at;index:idx_exchanges_channel_created,priority:2"`
}

// TableName returns the table name for the exchangeRecord entity.
func (exchangeRecord) TableName() string {
	return "exchanges"
}

func toRecord(e *model.Exchange) exchangeRecord {
	return exchangeRecord{
		ID:         e.ID,
		ChannelID:  e.ChannelID,
		ThreadTS:   e.ThreadTS,
		UserID:     e.UserID,
		Question:   e.Question,
		Topic:      e.Topic,
		SourceFile: e.SourceFile,
		Answer:     e.Answer,
		Outcome:    e.Outcome.String(),
		LatencyMS:  e.LatencyMS,
		CreatedAt:  e.CreatedAt,
	}
}

func toModel(r exchangeRecord) model.Exchange {
	return model.Exchange{
		ID:         r.ID,
		ChannelID:  r.ChannelID,
		ThreadTS:   r.ThreadTS,
		UserID:     r.UserID,
		Question:   r.Question,
		Topic:      r.Topic,
		SourceFile: r.SourceFile,
		Answer:     r.Answer,
		Outcome:    model.Outcome(r.Outcome),
		LatencyMS:  r.LatencyMS,
		CreatedAt:  r.CreatedAt,
	}
}

// GormExchangeRepository is a GORM implementation of ports.ExchangeRepository.
type GormExchangeRepository struct {
	db *gorm.DB
}

// NewGormExchangeRepository creates a new GormExchangeRepository.
func NewGormExchangeRepository(db *gorm.DB) *GormExchangeRepository {
	return &GormExchangeRepository{db: db}
}

// Save appends an exchange to the log.
func (r *GormExchangeRepository) Save(ctx context.Context, exchange *model.Exchange) error {
	record := toRecord(exchange)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return exception.NewBotError(moduleName, "failed to save exchange", err, exception.IsTemporary(err))
	}
	return nil
}

// RecentByChannel returns up to limit most recent exchanges in a channel,
// newest first.
func (r *GormExchangeRepository) RecentByChannel(ctx context.Context, channelID string, limit int) ([]model.Exchange, error) {
	var records []exchangeRecord
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, exception.NewBotError(moduleName, "failed to query recent exchanges", err, exception.IsTemporary(err))
	}
	return toModels(records), nil
}

// ListAll returns all exchanges ordered by creation time, oldest first.
func (r *GormExchangeRepository) ListAll(ctx context.Context) ([]model.Exchange, error) {
	var records []exchangeRecord
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, exception.NewBotError(moduleName, "failed to list exchanges", err, exception.IsTemporary(err))
	}
	return toModels(records), nil
}

// Close releases the underlying connection.
func (r *GormExchangeRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return exception.NewBotError(moduleName, "failed to get underlying sql.DB", err, false)
	}
	return sqlDB.Close()
}

func toModels(records []exchangeRecord) []model.Exchange {
	exchanges := make([]model.Exchange, len(records))
	for i, record := range records {
		exchanges[i] = toModel(record)
	}
	return exchanges
}

var _ ports.ExchangeRepository = (*GormExchangeRepository)(nil)
