package dto

import (
	"time"

	"github.com/cuongbtq/jobster-api/internal/api/model"
)

// CreateJobRequest is the body of POST /jobs. A createdBy field, if sent, is dropped.
type CreateJobRequest struct {
	Company     string `json:"company" binding:"required,max=50"`
	Position    string `json:"position" binding:"required,max=100"`
	Status      string `json:"status" binding:"omitempty,oneof=interview declined pending"`
	JobType     string `json:"jobType" binding:"omitempty,oneof=full-time part-time remote internship"`
	JobLocation string `json:"jobLocation" binding:"omitempty,max=200"`
}

// UpdateJobRequest is the body of PATCH /jobs/:id; absent fields stay nil
type UpdateJobRequest struct {
	Company     *string `json:"company" binding:"omitempty,max=50"`
	Position    *string `json:"position" binding:"omitempty,max=100"`
	Status      *string `json:"status" binding:"omitempty,oneof=interview declined pending"`
	JobType     *string `json:"jobType" binding:"omitempty,oneof=full-time part-time remote internship"`
	JobLocation *string `json:"jobLocation" binding:"omitempty,max=200"`
}

// ToModel converts the request into a store update
func (r UpdateJobRequest) ToModel() model.JobUpdate {
	return model.JobUpdate{
		Company:     r.Company,
		Position:    r.Position,
		Status:      r.Status,
		JobType:     r.JobType,
		JobLocation: r.JobLocation,
	}
}

// ListJobsRequest holds the raw query of GET /jobs. Page and limit stay strings
// so that junk values fall back to defaults instead of failing the request.
type ListJobsRequest struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	JobType string `form:"jobType"`
	Sort    string `form:"sort"`
	Page    string `form:"page"`
	Limit   string `form:"limit"`
}

type JobDTO struct {
	ID          string `json:"_id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Status      string `json:"status"`
	JobType     string `json:"jobType"`
	JobLocation string `json:"jobLocation"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// NewJobDTO maps a stored job to its wire shape
func NewJobDTO(job *model.Job) JobDTO {
	return JobDTO{
		ID:          job.ID,
		Company:     job.Company,
		Position:    job.Position,
		Status:      job.Status,
		JobType:     job.JobType,
		JobLocation: job.JobLocation,
		CreatedBy:   job.CreatedBy,
		CreatedAt:   job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   job.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type JobResponse struct {
	Job JobDTO `json:"job"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	TotalJobs  int64    `json:"totalJobs"`
	NumOfPages int64    `json:"numOfPages"`
}

type StatsResponse struct {
	DefaultStats        map[string]int64 `json:"defaultStats"`
	MonthlyApplications []MonthlyCount   `json:"monthlyApplications"`
}

// MonthlyCount is an entry of the monthly applications series
type MonthlyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
