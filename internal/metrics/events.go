package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(jobEventsPublished, jobEventsProcessed)
}

// Event outcomes
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultRequeue = "requeue"
	ResultDropped = "dropped"
)

var (
	jobEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_events_published_total",
			Help: "Job events published by the API, by event type and result.",
		},
		[]string{"type", "result"}, // result: success, failure
	)

	jobEventsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_events_processed_total",
			Help: "Job events handled by the worker, by result.",
		},
		[]string{"result"}, // result: success, requeue, dropped
	)
)

func IncEventPublished(eventType, result string) {
	jobEventsPublished.WithLabelValues(norm(eventType), norm(result)).Inc()
}

func IncEventProcessed(result string) {
	jobEventsProcessed.WithLabelValues(norm(result)).Inc()
}
