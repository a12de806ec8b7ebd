package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobster-api/internal/worker/domain"
)

// processEvent writes one event to the audit table within the event timeout
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	event := msg.Event

	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidMessage, err)
	}

	eventCtx := ctx
	if w.eventTimeout > 0 {
		var cancel context.CancelFunc
		eventCtx, cancel = context.WithTimeout(ctx, w.eventTimeout)
		defer cancel()
	}

	inserted, err := w.store.RecordEvent(eventCtx, event)
	if err != nil {
		return err
	}

	outcome := domain.OutcomeRecorded
	if !inserted {
		outcome = domain.OutcomeDuplicate
	}

	w.logger.Info("Job event processed",
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType),
		slog.String("job_id", event.JobID),
		slog.String("user_id", event.UserID),
		slog.String("outcome", outcome),
	)

	return nil
}
