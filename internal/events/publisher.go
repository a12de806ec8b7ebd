package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobster-api/internal/metrics"
	"github.com/cuongbtq/jobster-api/shared/rabbitmq"
)

// Publisher emits job events. Callers treat errors as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event JobEvent) error
}

type messagePublisher interface {
	PublishWithRetry(ctx context.Context, msg rabbitmq.Message) error
}

// RabbitPublisher sends events to the configured exchange, one routing key per event type
type RabbitPublisher struct {
	client  messagePublisher
	logger  *slog.Logger
	timeout time.Duration
}

func NewRabbitPublisher(client *rabbitmq.Client, timeout time.Duration, logger *slog.Logger) *RabbitPublisher {
	return newRabbitPublisher(client, timeout, logger)
}

func newRabbitPublisher(client messagePublisher, timeout time.Duration, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

func (p *RabbitPublisher) Publish(ctx context.Context, event JobEvent) error {
	body, err := event.Encode()
	if err != nil {
		metrics.IncEventPublished(event.EventType, metrics.ResultFailure)
		return err
	}

	// the request may already be finishing; the event should still go out
	ctx = context.WithoutCancel(ctx)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err = p.client.PublishWithRetry(ctx, rabbitmq.Message{
		Body:        body,
		ContentType: ContentType,
		MessageID:   event.EventID,
		Type:        event.EventType,
		RoutingKey:  event.EventType,
	})
	if err != nil {
		metrics.IncEventPublished(event.EventType, metrics.ResultFailure)
		p.logger.Warn("Failed to publish job event",
			slog.String("event_id", event.EventID),
			slog.String("event_type", event.EventType),
			slog.String("job_id", event.JobID),
			slog.String("error", err.Error()),
		)
		return err
	}

	metrics.IncEventPublished(event.EventType, metrics.ResultSuccess)
	p.logger.Debug("Job event published",
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType),
		slog.String("job_id", event.JobID),
	)
	return nil
}

// NopPublisher drops every event; used when events are disabled
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, JobEvent) error { return nil }
