package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobster-api/internal/metrics"
	"github.com/cuongbtq/jobster-api/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(context.WithoutCancel(ctx), i)
	}
}

// workerLoop drains eventsChan until the dispatcher closes it; ctx carries
// values only, so events already dispatched finish during shutdown
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for msg := range w.eventsChan {
		w.handleMessage(ctx, workerName, msg)
	}

	w.logger.Debug("Worker goroutine stopping - eventsChan closed",
		slog.String("worker_name", workerName),
	)
}

// handleMessage processes one event and settles its delivery
func (w *Worker) handleMessage(ctx context.Context, workerName string, msg *domain.EventMessage) {
	err := w.processEvent(ctx, msg)
	if err == nil {
		if ackErr := msg.Delivery.Ack(false); ackErr != nil {
			w.logger.Error("Failed to ACK message",
				slog.String("worker_name", workerName),
				slog.String("event_id", msg.Event.EventID),
				slog.String("error", ackErr.Error()),
			)
		}
		metrics.IncEventProcessed(metrics.ResultSuccess)
		return
	}

	requeue := shouldRequeue(err, msg.Redelivered())

	w.logger.Error("Job event processing failed",
		slog.String("worker_name", workerName),
		slog.String("event_id", msg.Event.EventID),
		slog.Bool("redelivered", msg.Redelivered()),
		slog.Bool("requeue", requeue),
		slog.String("error", err.Error()),
	)

	w.nack(msg.Delivery, requeue)

	if requeue {
		metrics.IncEventProcessed(metrics.ResultRequeue)
	} else {
		metrics.IncEventProcessed(metrics.ResultDropped)
	}
}

// shouldRequeue allows a single retry for transient failures
func shouldRequeue(err error, redelivered bool) bool {
	if errors.Is(err, domain.ErrInvalidMessage) || errors.Is(err, domain.ErrPermanent) {
		return false
	}

	var retryableErr *domain.RetryableError
	if errors.As(err, &retryableErr) {
		return !redelivered
	}

	// Default: don't requeue for unknown errors
	return false
}
