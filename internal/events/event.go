// Package events defines the job event message exchanged between the API and
// the worker, and the publishers the API uses to emit it.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types, also used as routing keys
const (
	TypeJobCreated = "job.created"
	TypeJobUpdated = "job.updated"
	TypeJobDeleted = "job.deleted"
)

const ContentType = "application/json"

var (
	ErrInvalidEvent = errors.New("invalid job event")
)

// JobEvent records one change to a job
type JobEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	JobID      string    `json:"job_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewJobEvent stamps a fresh event id and time
func NewJobEvent(eventType, jobID, userID, status string) JobEvent {
	return JobEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		JobID:      jobID,
		UserID:     userID,
		Status:     status,
		OccurredAt: time.Now().UTC(),
	}
}

func IsValidType(t string) bool {
	switch t {
	case TypeJobCreated, TypeJobUpdated, TypeJobDeleted:
		return true
	}
	return false
}

// Validate checks the fields the worker relies on
func (e JobEvent) Validate() error {
	if _, err := uuid.Parse(e.EventID); err != nil {
		return fmt.Errorf("%w: event_id must be a UUID", ErrInvalidEvent)
	}
	if !IsValidType(e.EventType) {
		return fmt.Errorf("%w: unknown event_type %q", ErrInvalidEvent, e.EventType)
	}
	if e.JobID == "" {
		return fmt.Errorf("%w: job_id is required", ErrInvalidEvent)
	}
	if e.UserID == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEvent)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: occurred_at is required", ErrInvalidEvent)
	}
	return nil
}

func (e JobEvent) Encode() ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job event: %w", err)
	}
	return body, nil
}

// Decode parses and validates a message body
func Decode(body []byte) (JobEvent, error) {
	var e JobEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return JobEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return JobEvent{}, err
	}
	return e, nil
}
