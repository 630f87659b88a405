package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rakaputra/warungpos-backend/pkg/config"
	"github.com/rakaputra/warungpos-backend/pkg/db/models"
	"github.com/rakaputra/warungpos-backend/pkg/enums"
	"github.com/rakaputra/warungpos-backend/pkg/logger"
	"github.com/rakaputra/warungpos-backend/pkg/outbox"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE outbox_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME,
		published_at DATETIME,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT
	)`).Error)
	return db
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{Level: zerolog.Disabled, Output: io.Discard})
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type stubResult struct {
	err error
}

func (r stubResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "server-id", nil
}

type stubPublisher struct {
	published []*gcppubsub.Message
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.published = append(p.published, msg)
	return stubResult{err: p.err}
}

func seedEvent(t *testing.T, db *gorm.DB, attempts int) models.OutboxEvent {
	t.Helper()
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"order_id":"x"}`),
		AttemptCount:  attempts,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func newTestService(t *testing.T, db *gorm.DB, pub publisher) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Outbox.BatchSize = 10
	cfg.Outbox.MaxAttempts = 3
	cfg.Outbox.PollInterval = time.Millisecond
	cfg.Outbox.PublishTimeout = time.Second

	svc, err := NewService(ServiceParams{
		Config:    cfg,
		Logger:    newTestLogger(),
		DB:        okPinger{},
		PubSub:    okPinger{},
		Repo:      outbox.NewRepository(db),
		Publisher: pub,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db, 0)
	pub := &stubPublisher{}
	svc := newTestService(t, db, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Len(t, pub.published, 1)
	require.Equal(t, string(enums.EventOrderCreated), pub.published[0].Attributes["event_type"])
	require.Equal(t, event.AggregateID.String(), pub.published[0].Attributes["aggregate_id"])

	var row models.OutboxEvent
	require.NoError(t, db.First(&row, "id = ?", event.ID).Error)
	require.NotNil(t, row.PublishedAt)

	// nothing left to do
	processed, err = svc.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
}

func TestProcessBatchMarksFailureAndRetries(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db, 0)
	pub := &stubPublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, db, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	var row models.OutboxEvent
	require.NoError(t, db.First(&row, "id = ?", event.ID).Error)
	require.Nil(t, row.PublishedAt)
	require.Equal(t, 1, row.AttemptCount)
	require.NotNil(t, row.LastError)
	require.Contains(t, *row.LastError, "broker unavailable")
}

func TestProcessBatchSkipsExhaustedRows(t *testing.T) {
	db := newTestDB(t)
	seedEvent(t, db, 3)
	pub := &stubPublisher{}
	svc := newTestService(t, db, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
	require.Empty(t, pub.published)
}
