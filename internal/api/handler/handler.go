package handler

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/jobster-api/internal/api/auth"
	"github.com/cuongbtq/jobster-api/internal/api/storage"
	"github.com/cuongbtq/jobster-api/internal/events"
)

// HealthCheck probes one backing component
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Store        storage.JobStore
	Publisher    events.Publisher
	Auth         *auth.Authenticator
	HealthChecks []HealthCheck
	ServiceName  string
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger    *slog.Logger
	store     storage.JobStore
	publisher events.Publisher
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &JobHandler{
		logger:    deps.Logger,
		store:     deps.Store,
		publisher: publisher,
	}
}
