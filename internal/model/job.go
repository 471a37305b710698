package model

import "time"

// Job status values.
const (
	JobStatusScheduled  = "scheduled"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// Job represents a single piece of field work for a tenant, optionally
// assigned to a technician. Only completed jobs feed KPI math.
type Job struct {
	ID               string     `db:"id" json:"id"`
	UserID           string     `db:"user_id" json:"user_id"`
	TechnicianID     *string    `db:"technician_id" json:"technician_id,omitempty"`
	Title            string     `db:"title" json:"title"`
	ClientName       string     `db:"client_name" json:"client_name"`
	ClientAddress    *string    `db:"client_address" json:"client_address,omitempty"`
	JobDate          time.Time  `db:"job_date" json:"job_date"`
	HoursSpent       float64    `db:"hours_spent" json:"hours_spent"`
	Revenue          float64    `db:"revenue" json:"revenue"`
	Cost             float64    `db:"cost" json:"cost"`
	Status           string     `db:"status" json:"status"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	JobType          string     `db:"job_type" json:"job_type"`
	CallbackRequired bool       `db:"callback_required" json:"callback_required"`
	ScheduledDate    *time.Time `db:"scheduled_date" json:"scheduled_date,omitempty"`
	CompletedDate    *time.Time `db:"completed_date" json:"completed_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
