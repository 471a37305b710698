package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"app/internal/model"
)

// JobRepository defines methods for accessing job rows.
type JobRepository interface {
	ListJobs(ctx context.Context, userID string) ([]model.Job, error)
	GetJob(ctx context.Context, userID, id string) (*model.Job, error)
	CreateJob(ctx context.Context, j *model.Job) error
	UpdateJob(ctx context.Context, j *model.Job) error
	DeleteJob(ctx context.Context, userID, id string) error
	ListCompletedJobsInRange(ctx context.Context, userID string, start, end time.Time) ([]model.Job, error)
	ListCompletedJobsForTechnician(ctx context.Context, userID, technicianID string, start, end time.Time) ([]model.Job, error)
	DeleteJobsForUser(ctx context.Context, userID string) (int64, error)
}

type jobRepo struct {
	db *sql.DB
}

// NewJobRepo creates a new JobRepository.
func NewJobRepo(db *sql.DB) JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, user_id, technician_id, title, client_name, client_address, job_date,
        hours_spent, revenue, cost, status, notes, job_type, callback_required,
        scheduled_date, completed_date, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner, j *model.Job) error {
	return row.Scan(
		&j.ID,
		&j.UserID,
		&j.TechnicianID,
		&j.Title,
		&j.ClientName,
		&j.ClientAddress,
		&j.JobDate,
		&j.HoursSpent,
		&j.Revenue,
		&j.Cost,
		&j.Status,
		&j.Notes,
		&j.JobType,
		&j.CallbackRequired,
		&j.ScheduledDate,
		&j.CompletedDate,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
}

func collectJobs(rows *sql.Rows) ([]model.Job, error) {
	defer rows.Close()
	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		if err := scanJob(rows, &j); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) ListJobs(ctx context.Context, userID string) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = $1 ORDER BY job_date DESC, created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list jobs for user %s: %w", userID, err)
	}
	return collectJobs(rows)
}

func (r *jobRepo) GetJob(ctx context.Context, userID, id string) (*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = $1 AND id = $2`
	var j model.Job
	if err := scanJob(r.db.QueryRowContext(ctx, query, userID, id), &j); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) CreateJob(ctx context.Context, j *model.Job) error {
	query := `INSERT INTO jobs (user_id, technician_id, title, client_name, client_address, job_date,
                hours_spent, revenue, cost, status, notes, job_type, callback_required,
                scheduled_date, completed_date)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		j.UserID, j.TechnicianID, j.Title, j.ClientName, j.ClientAddress, j.JobDate,
		j.HoursSpent, j.Revenue, j.Cost, j.Status, j.Notes, j.JobType, j.CallbackRequired,
		j.ScheduledDate, j.CompletedDate,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job for user %s: %w", j.UserID, err)
	}
	return nil
}

func (r *jobRepo) UpdateJob(ctx context.Context, j *model.Job) error {
	query := `UPDATE jobs SET technician_id = $3, title = $4, client_name = $5, client_address = $6,
                job_date = $7, hours_spent = $8, revenue = $9, cost = $10, status = $11,
                notes = $12, job_type = $13, callback_required = $14, scheduled_date = $15,
                completed_date = $16, updated_at = NOW()
              WHERE user_id = $1 AND id = $2`
	res, err := r.db.ExecContext(ctx, query,
		j.UserID, j.ID, j.TechnicianID, j.Title, j.ClientName, j.ClientAddress,
		j.JobDate, j.HoursSpent, j.Revenue, j.Cost, j.Status,
		j.Notes, j.JobType, j.CallbackRequired, j.ScheduledDate, j.CompletedDate,
	)
	if err != nil {
		return fmt.Errorf("update job %s: %w", j.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *jobRepo) DeleteJob(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete job %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListCompletedJobsInRange fetches completed jobs inside a closed date
// interval, the input of the KPI reduction.
func (r *jobRepo) ListCompletedJobsInRange(ctx context.Context, userID string, start, end time.Time) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
              WHERE user_id = $1 AND status = 'completed' AND job_date >= $2 AND job_date <= $3
              ORDER BY job_date`
	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list completed jobs for user %s: %w", userID, err)
	}
	return collectJobs(rows)
}

func (r *jobRepo) ListCompletedJobsForTechnician(ctx context.Context, userID, technicianID string, start, end time.Time) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs
              WHERE user_id = $1 AND technician_id = $2 AND status = 'completed'
                AND job_date >= $3 AND job_date <= $4
              ORDER BY job_date`
	rows, err := r.db.QueryContext(ctx, query, userID, technicianID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list completed jobs for technician %s: %w", technicianID, err)
	}
	return collectJobs(rows)
}

func (r *jobRepo) DeleteJobsForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete jobs for user %s: %w", userID, err)
	}
	return res.RowsAffected()
}
