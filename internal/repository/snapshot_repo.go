package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"app/internal/model"
)

// SnapshotRepository defines methods for accessing daily KPI rollups.
type SnapshotRepository interface {
	// UpsertSnapshot writes one (user_id, snapshot_date) rollup, replacing any
	// existing row for that day.
	UpsertSnapshot(ctx context.Context, s *model.AnalyticsSnapshot) error
	ListSnapshotsInRange(ctx context.Context, userID string, start, end time.Time) ([]model.AnalyticsSnapshot, error)
	DeleteSnapshotsForUser(ctx context.Context, userID string) (int64, error)
}

type snapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo creates a new SnapshotRepository.
func NewSnapshotRepo(db *sql.DB) SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) UpsertSnapshot(ctx context.Context, s *model.AnalyticsSnapshot) error {
	query := `
        INSERT INTO analytics_snapshots (user_id, snapshot_date, total_revenue, total_jobs,
            avg_hours_per_job, gross_margin, avg_job_revenue, first_time_fix_rate,
            avg_response_time, revenue_per_technician, jobs_per_tech_per_week,
            maintenance_completion_rate)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (user_id, snapshot_date) DO UPDATE
        SET total_revenue = EXCLUDED.total_revenue,
            total_jobs = EXCLUDED.total_jobs,
            avg_hours_per_job = EXCLUDED.avg_hours_per_job,
            gross_margin = EXCLUDED.gross_margin,
            avg_job_revenue = EXCLUDED.avg_job_revenue,
            first_time_fix_rate = EXCLUDED.first_time_fix_rate,
            avg_response_time = EXCLUDED.avg_response_time,
            revenue_per_technician = EXCLUDED.revenue_per_technician,
            jobs_per_tech_per_week = EXCLUDED.jobs_per_tech_per_week,
            maintenance_completion_rate = EXCLUDED.maintenance_completion_rate;
    `
	_, err := r.db.ExecContext(ctx, query,
		s.UserID, s.SnapshotDate, s.TotalRevenue, s.TotalJobs,
		s.AvgHoursPerJob, s.GrossMargin, s.AvgJobRevenue, s.FirstTimeFixRate,
		s.AvgResponseTime, s.RevenuePerTechnician, s.JobsPerTechPerWeek,
		s.MaintenanceCompletionRate,
	)
	if err != nil {
		return fmt.Errorf("upsert snapshot for user %s on %s: %w", s.UserID, s.SnapshotDate.Format("2006-01-02"), err)
	}
	return nil
}

func (r *snapshotRepo) ListSnapshotsInRange(ctx context.Context, userID string, start, end time.Time) ([]model.AnalyticsSnapshot, error) {
	query := `
        SELECT id, user_id, snapshot_date, total_revenue, total_jobs, avg_hours_per_job,
               gross_margin, avg_job_revenue, first_time_fix_rate, avg_response_time,
               revenue_per_technician, jobs_per_tech_per_week, maintenance_completion_rate,
               created_at
        FROM analytics_snapshots
        WHERE user_id = $1 AND snapshot_date >= $2 AND snapshot_date <= $3
        ORDER BY snapshot_date
    `
	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list snapshots for user %s: %w", userID, err)
	}
	defer rows.Close()

	var snapshots []model.AnalyticsSnapshot
	for rows.Next() {
		var s model.AnalyticsSnapshot
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.SnapshotDate, &s.TotalRevenue, &s.TotalJobs, &s.AvgHoursPerJob,
			&s.GrossMargin, &s.AvgJobRevenue, &s.FirstTimeFixRate, &s.AvgResponseTime,
			&s.RevenuePerTechnician, &s.JobsPerTechPerWeek, &s.MaintenanceCompletionRate,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func (r *snapshotRepo) DeleteSnapshotsForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analytics_snapshots WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete snapshots for user %s: %w", userID, err)
	}
	return res.RowsAffected()
}
