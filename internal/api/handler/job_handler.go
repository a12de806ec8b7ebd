package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cuongbtq/jobster-api/internal/api/apperror"
	"github.com/cuongbtq/jobster-api/internal/api/auth"
	"github.com/cuongbtq/jobster-api/internal/api/domain"
	"github.com/cuongbtq/jobster-api/internal/api/dto"
	"github.com/cuongbtq/jobster-api/internal/api/model"
	"github.com/cuongbtq/jobster-api/internal/api/storage"
	"github.com/cuongbtq/jobster-api/internal/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgEmptyCompanyOrPosition = "Company or Position fields cannot be empty"

// ListJobs handles GET /api/v1/jobs
// Lists the caller's jobs with search, filters, sorting and offset pagination
func (h *JobHandler) ListJobs(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.abort(c, apperror.BadRequest("Invalid query parameters").Wrap(err))
		return
	}

	query := newJobQuery(user.ID, req)

	h.logger.Debug("Listing jobs",
		slog.String("user_id", user.ID),
		slog.String("status", query.Status),
		slog.String("job_type", query.JobType),
		slog.String("sort", query.Sort),
		slog.Int("page", query.Page),
		slog.Int("limit", query.Limit),
	)

	ctx := c.Request.Context()

	jobs, err := h.store.ListJobs(ctx, query)
	if err != nil {
		h.abort(c, err)
		return
	}

	// separate read; the total may drift from the page under concurrent writes
	total, err := h.store.CountJobs(ctx, query)
	if err != nil {
		h.abort(c, err)
		return
	}

	resp := dto.ListJobsResponse{
		Jobs:       make([]dto.JobDTO, len(jobs)),
		TotalJobs:  total,
		NumOfPages: numOfPages(total, query.Limit),
	}
	for i := range jobs {
		resp.Jobs[i] = dto.NewJobDTO(&jobs[i])
	}

	c.JSON(http.StatusOK, resp)
}

// GetJob handles GET /api/v1/jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	jobID := c.Param("id")
	if !isJobID(jobID) {
		h.abort(c, notFound(jobID))
		return
	}

	job, err := h.store.GetJob(c.Request.Context(), user.ID, jobID)
	if err != nil {
		h.abort(c, storeError(err, jobID))
		return
	}

	c.JSON(http.StatusOK, dto.JobResponse{Job: dto.NewJobDTO(job)})
}

// CreateJob handles POST /api/v1/jobs
// The owner always comes from the session, never from the body
func (h *JobHandler) CreateJob(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abort(c, bindingError(err))
		return
	}

	now := storeTime()
	job := model.Job{
		ID:          uuid.NewString(),
		Company:     req.Company,
		Position:    req.Position,
		Status:      withDefault(req.Status, domain.DefaultJobStatus),
		JobType:     withDefault(req.JobType, domain.DefaultJobType),
		JobLocation: withDefault(req.JobLocation, domain.DefaultJobLocation),
		CreatedBy:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateJob(c.Request.Context(), &job); err != nil {
		h.abort(c, err)
		return
	}

	h.logger.Info("Job created",
		slog.String("job_id", job.ID),
		slog.String("user_id", user.ID),
	)
	h.publish(c.Request.Context(), events.TypeJobCreated, &job)

	c.JSON(http.StatusCreated, dto.JobResponse{Job: dto.NewJobDTO(&job)})
}

// UpdateJob handles PATCH and PUT /api/v1/jobs/:id
// Only fields present in the body change
func (h *JobHandler) UpdateJob(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	jobID := c.Param("id")

	var req dto.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.abort(c, bindingError(err))
		return
	}

	if isEmptyString(req.Company) || isEmptyString(req.Position) {
		h.abort(c, apperror.BadRequest(msgEmptyCompanyOrPosition))
		return
	}

	if !isJobID(jobID) {
		h.abort(c, notFound(jobID))
		return
	}

	job, err := h.store.UpdateJob(c.Request.Context(), user.ID, jobID, req.ToModel())
	if err != nil {
		h.abort(c, storeError(err, jobID))
		return
	}

	h.logger.Info("Job updated",
		slog.String("job_id", job.ID),
		slog.String("user_id", user.ID),
	)
	h.publish(c.Request.Context(), events.TypeJobUpdated, job)

	c.JSON(http.StatusOK, dto.JobResponse{Job: dto.NewJobDTO(job)})
}

// DeleteJob handles DELETE /api/v1/jobs/:id
// Responds 200 with an empty body
func (h *JobHandler) DeleteJob(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	jobID := c.Param("id")
	if !isJobID(jobID) {
		h.abort(c, notFound(jobID))
		return
	}

	job, err := h.store.DeleteJob(c.Request.Context(), user.ID, jobID)
	if err != nil {
		h.abort(c, storeError(err, jobID))
		return
	}

	h.logger.Info("Job deleted",
		slog.String("job_id", job.ID),
		slog.String("user_id", user.ID),
	)
	h.publish(c.Request.Context(), events.TypeJobDeleted, job)

	c.Status(http.StatusOK)
}

// ShowStats handles GET /api/v1/jobs/stats
func (h *JobHandler) ShowStats(c *gin.Context) {
	user, ok := h.requireUser(c)
	if !ok {
		return
	}

	stats, err := h.store.CountByStatus(c.Request.Context(), user.ID)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		DefaultStats:        stats,
		MonthlyApplications: []dto.MonthlyCount{},
	})
}

func (h *JobHandler) requireUser(c *gin.Context) (auth.User, bool) {
	user, ok := auth.UserFrom(c)
	if !ok {
		h.abort(c, apperror.Unauthenticated(auth.MsgAuthenticationInvalid))
		return auth.User{}, false
	}
	return user, true
}

// abort hands err to the error middleware
func (h *JobHandler) abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func (h *JobHandler) publish(ctx context.Context, eventType string, job *model.Job) {
	event := events.NewJobEvent(eventType, job.ID, job.CreatedBy, job.Status)
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Job event not delivered",
			slog.String("event_type", eventType),
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	}
}

// newJobQuery normalizes raw list parameters: "all" disables a filter and
// page/limit fall back to defaults when missing, non-numeric or below 1
func newJobQuery(userID string, req dto.ListJobsRequest) storage.JobQuery {
	return storage.JobQuery{
		UserID:  userID,
		Search:  req.Search,
		Status:  filterValue(req.Status),
		JobType: filterValue(req.JobType),
		Sort:    sortValue(req.Sort),
		Page:    positiveInt(req.Page, domain.DefaultPage),
		Limit:   positiveInt(req.Limit, domain.DefaultLimit),
	}
}

func filterValue(v string) string {
	if v == domain.FilterAll {
		return ""
	}
	return v
}

// sortValue drops unknown keys so every store falls back to its default order
func sortValue(v string) string {
	if domain.IsValidSort(v) {
		return v
	}
	return ""
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func numOfPages(total int64, limit int) int64 {
	if limit < 1 {
		return 0
	}
	l := int64(limit)
	pages := total / l
	if total%l != 0 {
		pages++
	}
	return pages
}

func withDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func isEmptyString(v *string) bool {
	return v != nil && *v == ""
}

func isJobID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(jobID string) error {
	return apperror.NotFound("No job with id " + jobID)
}

func storeError(err error, jobID string) error {
	if errors.Is(err, domain.ErrJobNotFound) {
		return notFound(jobID)
	}
	return err
}

// storeTime is the current UTC time at the coarsest precision both stores keep
func storeTime() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
