package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	model "github.com/bot25-netizen/SlackChatBot/pkg/bot/core/domain/model"
)

var recordColumns = []string{
	"id", "channel_id", "thread_ts", "user_id", "question", "topic",
	"source_file", "answer", "outcome", "latency_ms", "created_at",
}

func newMockRepository(t *testing.T) (*GormExchangeRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: newGormLogger()})
	require.NoError(t, err)

	return NewGormExchangeRepository(gormDB), mock
}

func TestRecentByChannel(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(recordColumns).
		AddRow("id-2", "C0001", "1700000000.000200", "U456", "q2", "ゼミ",
			"zemi_unei.txt", "a2", "grounded", int64(1200), now).
		AddRow("id-1", "C0001", "1700000000.000100", "U456", "q1", "",
			"", "a1", "fallback", int64(900), now.Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "exchanges" WHERE channel_id = $1 ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("C0001", 5).
		WillReturnRows(rows)

	exchanges, err := repo.RecentByChannel(context.Background(), "C0001", 5)
	require.NoError(t, err)

	require.Len(t, exchanges, 2)
	assert.Equal(t, "id-2", exchanges[0].ID)
	assert.Equal(t, model.OutcomeGrounded, exchanges[0].Outcome)
	assert.Equal(t, "ゼミ", exchanges[0].Topic)
	assert.Equal(t, model.OutcomeFallback, exchanges[1].Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentByChannel_QueryError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err := repo.RecentByChannel(context.Background(), "C0001", 5)
	assert.Error(t, err)
}

func TestListAll(t *testing.T) {
	repo, mock := newMockRepository(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(recordColumns).
		AddRow("id-1", "C0001", "1700000000.000100", "U456", "q1", "",
			"", "a1", "fallback", int64(900), now.Add(-time.Hour)).
		AddRow("id-2", "D0001", "1700000000.000200", "U789", "q2", "ゼミ",
			"zemi_unei.txt", "a2", "grounded", int64(1200), now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "exchanges" ORDER BY created_at ASC`)).
		WillReturnRows(rows)

	exchanges, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	require.Len(t, exchanges, 2)
	assert.Equal(t, "id-1", exchanges[0].ID)
	assert.Equal(t, "id-2", exchanges[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "exchanges"`)).
		WithArgs("id-1", "C0001", "1700000000.000100", "U456", "q1", "ゼミ",
			"zemi_unei.txt", "a1", "grounded", int64(1200), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), &model.Exchange{
		ID:         "id-1",
		ChannelID:  "C0001",
		ThreadTS:   "1700000000.000100",
		UserID:     "U456",
		Question:   "q1",
		Topic:      "ゼミ",
		SourceFile: "zemi_unei.txt",
		Answer:     "a1",
		Outcome:    model.OutcomeGrounded,
		LatencyMS:  1200,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
