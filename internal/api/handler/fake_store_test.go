package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cuongbtq/jobster-api/internal/api/domain"
	"github.com/cuongbtq/jobster-api/internal/api/model"
	"github.com/cuongbtq/jobster-api/internal/api/storage"
	"github.com/cuongbtq/jobster-api/internal/events"
)

// fakeStore is an in-memory JobStore with the same owner scoping as the real ones
type fakeStore struct {
	mu    sync.Mutex
	jobs  map[string]model.Job
	order []string
	err   error // returned by every call when set
}

var _ storage.JobStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{jobs: map[string]model.Job{}}
}

func (s *fakeStore) CreateJob(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.jobs[job.ID] = *job
	s.order = append(s.order, job.ID)
	return nil
}

func (s *fakeStore) GetJob(_ context.Context, userID, jobID string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	job, ok := s.jobs[jobID]
	if !ok || job.CreatedBy != userID {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

func (s *fakeStore) matching(q storage.JobQuery) []model.Job {
	var out []model.Job
	for _, id := range s.order {
		job, ok := s.jobs[id]
		if !ok || job.CreatedBy != q.UserID {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(job.Position), strings.ToLower(q.Search)) {
			continue
		}
		if q.Status != "" && job.Status != q.Status {
			continue
		}
		if q.JobType != "" && job.JobType != q.JobType {
			continue
		}
		out = append(out, job)
	}
	return out
}

func (s *fakeStore) ListJobs(_ context.Context, q storage.JobQuery) ([]model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	jobs := s.matching(q)
	switch q.Sort {
	case domain.SortLatest:
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	case domain.SortAZ:
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Position < jobs[j].Position })
	case domain.SortZA:
		sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Position > jobs[j].Position })
	}

	start := q.Offset()
	if start >= len(jobs) {
		return []model.Job{}, nil
	}
	end := len(jobs)
	if q.Limit < end-start {
		end = start + q.Limit
	}
	return jobs[start:end], nil
}

func (s *fakeStore) CountJobs(_ context.Context, q storage.JobQuery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.matching(q))), nil
}

func (s *fakeStore) UpdateJob(_ context.Context, userID, jobID string, update model.JobUpdate) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	job, ok := s.jobs[jobID]
	if !ok || job.CreatedBy != userID {
		return nil, domain.ErrJobNotFound
	}

	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&job.Company, update.Company)
	apply(&job.Position, update.Position)
	apply(&job.Status, update.Status)
	apply(&job.JobType, update.JobType)
	apply(&job.JobLocation, update.JobLocation)
	job.UpdatedAt = time.Now().UTC()

	s.jobs[jobID] = job
	return &job, nil
}

func (s *fakeStore) DeleteJob(_ context.Context, userID, jobID string) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	job, ok := s.jobs[jobID]
	if !ok || job.CreatedBy != userID {
		return nil, domain.ErrJobNotFound
	}
	delete(s.jobs, jobID)
	return &job, nil
}

func (s *fakeStore) CountByStatus(_ context.Context, userID string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	stats := map[string]int64{}
	for _, job := range s.jobs {
		if job.CreatedBy == userID {
			stats[job.Status]++
		}
	}
	return stats, nil
}

func (s *fakeStore) get(jobID string) (model.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	return job, ok
}

// recordingPublisher keeps every event it is handed
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.JobEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.JobEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}
