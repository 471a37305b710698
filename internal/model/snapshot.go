package model

import "time"

// AnalyticsSnapshot is a persisted daily rollup of the ten KPI values for a
// tenant, one row per (user_id, snapshot_date).
type AnalyticsSnapshot struct {
	ID                        string    `db:"id" json:"id"`
	UserID                    string    `db:"user_id" json:"user_id"`
	SnapshotDate              time.Time `db:"snapshot_date" json:"snapshot_date"`
	TotalRevenue              float64   `db:"total_revenue" json:"total_revenue"`
	TotalJobs                 int       `db:"total_jobs" json:"total_jobs"`
	AvgHoursPerJob            float64   `db:"avg_hours_per_job" json:"avg_hours_per_job"`
	GrossMargin               float64   `db:"gross_margin" json:"gross_margin"`
	AvgJobRevenue             float64   `db:"avg_job_revenue" json:"avg_job_revenue"`
	FirstTimeFixRate          float64   `db:"first_time_fix_rate" json:"first_time_fix_rate"`
	AvgResponseTime           float64   `db:"avg_response_time" json:"avg_response_time"`
	RevenuePerTechnician      float64   `db:"revenue_per_technician" json:"revenue_per_technician"`
	JobsPerTechPerWeek        float64   `db:"jobs_per_tech_per_week" json:"jobs_per_tech_per_week"`
	MaintenanceCompletionRate float64   `db:"maintenance_completion_rate" json:"maintenance_completion_rate"`
	CreatedAt                 time.Time `db:"created_at" json:"created_at"`
}
