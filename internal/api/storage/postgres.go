package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cuongbtq/jobster-api/internal/api/domain"
	"github.com/cuongbtq/jobster-api/internal/api/model"
	"github.com/cuongbtq/jobster-api/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// JobsSchema creates the jobs table; safe to run on every start
var JobsSchema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		id           UUID PRIMARY KEY,
		company      VARCHAR(50)  NOT NULL,
		position     VARCHAR(100) NOT NULL,
		status       VARCHAR(20)  NOT NULL DEFAULT 'pending',
		job_type     VARCHAR(20)  NOT NULL DEFAULT 'full-time',
		job_location VARCHAR(200) NOT NULL DEFAULT 'my city',
		created_by   VARCHAR(64)  NOT NULL,
		created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_created_by_created_at ON jobs (created_by, created_at DESC)`,
}

const jobColumns = `id, company, position, status, job_type, job_location, created_by, created_at, updated_at`

type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ JobStore = (*PostgresStore)(nil)

func NewPostgresStore(pg *postgresql.Client, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     pg.GetDB(),
		logger: logger,
	}
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES (
			:id, :company, :position, :status, :job_type,
			:job_location, :created_by, :created_at, :updated_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, userID, jobID string) (*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND created_by = $2`

	var job model.Job
	if err := s.db.GetContext(ctx, &job, query, jobID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, q JobQuery) ([]model.Job, error) {
	query, args := buildListQuery(q)

	jobs := []model.Job{}
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

func (s *PostgresStore) CountJobs(ctx context.Context, q JobQuery) (int64, error) {
	where, args := buildJobFilter(q)

	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM jobs`+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	return total, nil
}

func (s *PostgresStore) UpdateJob(ctx context.Context, userID, jobID string, update model.JobUpdate) (*model.Job, error) {
	query, args := buildUpdateQuery(userID, jobID, update)

	var job model.Job
	if err := s.db.GetContext(ctx, &job, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return &job, nil
}

func (s *PostgresStore) DeleteJob(ctx context.Context, userID, jobID string) (*model.Job, error) {
	query := `DELETE FROM jobs WHERE id = $1 AND created_by = $2 RETURNING ` + jobColumns

	var job model.Job
	if err := s.db.GetContext(ctx, &job, query, jobID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to delete job: %w", err)
	}

	return &job, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM jobs
		WHERE created_by = $1
		GROUP BY status
	`

	var rows []struct {
		Status string `db:"status"`
		Count  int64  `db:"count"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to aggregate job stats: %w", err)
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Count
	}

	return stats, nil
}

// buildJobFilter renders the WHERE clause shared by the page and count queries
func buildJobFilter(q JobQuery) (string, []any) {
	conds := []string{"created_by = $1"}
	args := []any{q.UserID}

	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		conds = append(conds, fmt.Sprintf("position ILIKE $%d", len(args)))
	}

	if q.Status != "" {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if q.JobType != "" {
		args = append(args, q.JobType)
		conds = append(conds, fmt.Sprintf("job_type = $%d", len(args)))
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildListQuery(q JobQuery) (string, []any) {
	where, args := buildJobFilter(q)

	query := `SELECT ` + jobColumns + ` FROM jobs` + where + ` ORDER BY ` + orderByClause(q.Sort)

	args = append(args, q.Limit, q.Offset())
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return query, args
}

// orderByClause maps a sort key to SQL; id breaks ties so pages never overlap
func orderByClause(sort string) string {
	switch sort {
	case domain.SortLatest:
		return "created_at DESC, id DESC"
	case domain.SortOldest:
		return "created_at ASC, id ASC"
	case domain.SortAZ:
		return "position ASC, id ASC"
	case domain.SortZA:
		return "position DESC, id DESC"
	default:
		return "created_at ASC, id ASC"
	}
}

func buildUpdateQuery(userID, jobID string, update model.JobUpdate) (string, []any) {
	var sets []string
	var args []any

	set := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	set("company", update.Company)
	set("position", update.Position)
	set("status", update.Status)
	set("job_type", update.JobType)
	set("job_location", update.JobLocation)
	sets = append(sets, "updated_at = NOW()")

	args = append(args, jobID, userID)
	query := fmt.Sprintf(
		"UPDATE jobs SET %s WHERE id = $%d AND created_by = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args)-1, len(args), jobColumns,
	)

	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
