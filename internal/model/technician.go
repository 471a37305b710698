package model

import "time"

// Technician status values.
const (
	TechnicianStatusActive   = "active"
	TechnicianStatusInactive = "inactive"
)

// Technician belongs to one profile. Active technicians are the denominator
// in per-technician KPI ratios.
type Technician struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
