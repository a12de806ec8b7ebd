package storage

import (
	"context"
	"math"

	"github.com/cuongbtq/jobster-api/internal/api/model"
)

// JobStore persists job applications. Every method is scoped to one owner;
// a job owned by someone else behaves exactly like a missing one.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJob(ctx context.Context, userID, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, query JobQuery) ([]model.Job, error)
	CountJobs(ctx context.Context, query JobQuery) (int64, error)
	UpdateJob(ctx context.Context, userID, jobID string, update model.JobUpdate) (*model.Job, error)
	DeleteJob(ctx context.Context, userID, jobID string) (*model.Job, error)
	CountByStatus(ctx context.Context, userID string) (map[string]int64, error)
}

// JobQuery is a normalized list request. Empty Status/JobType/Search mean no filter.
type JobQuery struct {
	UserID  string
	Search  string
	Status  string
	JobType string
	Sort    string
	Page    int
	Limit   int
}

// Offset is the number of records skipped before the requested page.
// It saturates at math.MaxInt, which lands past the last page.
func (q JobQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}
