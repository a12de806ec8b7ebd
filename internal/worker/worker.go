package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/jobster-api/internal/worker/domain"
	"github.com/cuongbtq/jobster-api/internal/worker/storage"
	amqp "github.com/rabbitmq/amqp091-go"
)

// deliverySource is the part of the RabbitMQ client the worker consumes from
type deliverySource interface {
	SetQos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Source        deliverySource
	Store         storage.EventStore
	WorkerID      string
	QueueName     string
	Concurrency   int
	PrefetchCount int
	EventTimeout  time.Duration
}

// Worker records job events consumed from RabbitMQ
type Worker struct {
	logger        *slog.Logger
	source        deliverySource
	store         storage.EventStore
	workerID      string
	queueName     string
	concurrency   int
	prefetchCount int
	eventTimeout  time.Duration
	eventsChan    chan *domain.EventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	workerID := cfg.WorkerID
	if workerID == "" {
		workerID = domain.ConsumerTagPrefix
	}

	return &Worker{
		logger:        cfg.Logger,
		source:        cfg.Source,
		store:         cfg.Store,
		workerID:      workerID,
		queueName:     cfg.QueueName,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		eventTimeout:  cfg.EventTimeout,
		eventsChan:    make(chan *domain.EventMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start consumes until ctx is canceled, Stop is called, or the delivery channel closes.
// In-flight events finish before it returns. A closed delivery channel yields
// domain.ErrDeliveriesClosed since the client does not reconnect.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	dispatchErr := w.startMessageDispatcher(ctx, deliveries)

	close(w.eventsChan)
	w.wg.Wait()

	w.logger.Info("Worker stopped", slog.String("worker_id", w.workerID))
	return dispatchErr
}

// Stop asks the dispatcher to stop taking new deliveries
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker...")
		close(w.stopChan)
	})
}
