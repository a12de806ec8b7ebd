package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobster-api/internal/events"
	"github.com/cuongbtq/jobster-api/internal/worker/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// JobEventsSchema creates the audit table; safe to run on every start
var JobEventsSchema = []string{
	`CREATE TABLE IF NOT EXISTS job_events (
		event_id    UUID PRIMARY KEY,
		event_type  VARCHAR(32)  NOT NULL,
		job_id      VARCHAR(64)  NOT NULL,
		user_id     VARCHAR(64)  NOT NULL,
		status      VARCHAR(20)  NOT NULL DEFAULT '',
		occurred_at TIMESTAMPTZ  NOT NULL,
		recorded_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_job_events_job_id ON job_events (job_id, occurred_at)`,
}

// EventStore records job events
type EventStore interface {
	// RecordEvent stores e and reports false when it was already recorded
	RecordEvent(ctx context.Context, e events.JobEvent) (bool, error)
}

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ EventStore = (*Storage)(nil)

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// RecordEvent inserts the event once; replays of the same event_id are ignored
func (s *Storage) RecordEvent(ctx context.Context, e events.JobEvent) (bool, error) {
	query := `
		INSERT INTO job_events (event_id, event_type, job_id, user_id, status, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING
	`

	result, err := s.db.ExecContext(ctx, query, e.EventID, e.EventType, e.JobID, e.UserID, e.Status, e.OccurredAt)
	if err != nil {
		return false, classify(fmt.Errorf("failed to record job event: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, classify(fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rowsAffected == 0 {
		s.logger.Debug("Job event already recorded",
			slog.String("event_id", e.EventID),
		)
		return false, nil
	}

	return true, nil
}

// classify marks constraint and data errors as permanent; everything else
// (connection loss, timeouts, serialization failures) is retryable
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23", "42":
			return fmt.Errorf("%w: %v", domain.ErrPermanent, err)
		}
	}
	return domain.NewRetryableError(err)
}
