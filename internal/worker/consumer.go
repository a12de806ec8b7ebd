package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobster-api/internal/events"
	"github.com/cuongbtq/jobster-api/internal/metrics"
	"github.com/cuongbtq/jobster-api/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer sets up RabbitMQ consumer with QoS and returns delivery channel
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	if w.source == nil {
		return nil, fmt.Errorf("rabbitmq client is nil")
	}

	// per-consumer limit of unacknowledged messages
	if err := w.source.SetQos(w.prefetchCount); err != nil {
		return nil, err
	}

	w.logger.Info("RabbitMQ QoS configured",
		slog.Int("prefetch_count", w.prefetchCount),
	)

	deliveries, err := w.source.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", w.workerID),
		slog.String("queue", w.queueName),
	)

	return deliveries, nil
}

// startMessageDispatcher decodes deliveries and hands them to the worker pool.
// It returns ErrDeliveriesClosed when the broker side goes away.
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	w.logger.Info("Message dispatcher started",
		slog.String("worker_id", w.workerID),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return nil

		case <-w.stopChan:
			w.logger.Info("Message dispatcher stopped - stop requested")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return domain.ErrDeliveriesClosed
			}

			event, err := events.Decode(delivery.Body)
			if err != nil {
				w.logger.Error("Dropping malformed job event",
					slog.String("message_id", delivery.MessageId),
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				// malformed messages never succeed; dead-letter them
				w.nack(delivery, false)
				metrics.IncEventProcessed(metrics.ResultDropped)
				continue
			}

			msg := &domain.EventMessage{Event: event, Delivery: delivery}

			select {
			case w.eventsChan <- msg:
				w.logger.Debug("Job event dispatched to worker pool",
					slog.String("event_id", event.EventID),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				w.logger.Info("Message dispatcher stopped while dispatching event")
				w.nack(delivery, true)
				return nil
			case <-w.stopChan:
				w.logger.Info("Message dispatcher stopped while dispatching event")
				w.nack(delivery, true)
				return nil
			}
		}
	}
}

func (w *Worker) nack(delivery amqp.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		w.logger.Error("Failed to NACK message",
			slog.Uint64("delivery_tag", delivery.DeliveryTag),
			slog.Bool("requeue", requeue),
			slog.String("error", err.Error()),
		)
	}
}
