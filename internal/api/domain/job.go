package domain

import (
	"errors"
)

// Job statuses
const (
	JobStatusInterview = "interview"
	JobStatusDeclined  = "declined"
	JobStatusPending   = "pending"
)

// Job types
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeRemote     = "remote"
	JobTypeInternship = "internship"
)

// Defaults applied on create
const (
	DefaultJobStatus   = JobStatusPending
	DefaultJobType     = JobTypeFullTime
	DefaultJobLocation = "my city"
)

// FilterAll disables the status or job type filter when listing
const FilterAll = "all"

// Sort keys accepted by the list endpoint
const (
	SortLatest = "latest"
	SortOldest = "oldest"
	SortAZ     = "a-z"
	SortZA     = "z-a"
)

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

var (
	ErrJobNotFound = errors.New("job not found")
)

// IsValidSort reports whether s is one of the supported sort keys
func IsValidSort(s string) bool {
	switch s {
	case SortLatest, SortOldest, SortAZ, SortZA:
		return true
	}
	return false
}
