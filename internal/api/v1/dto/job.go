package dto

import "time"

// JobCreateDTO is used for incoming job creation requests
type JobCreateDTO struct {
	Title            string     `json:"title" validate:"required"`
	ClientName       string     `json:"client_name" validate:"required"`
	ClientAddress    *string    `json:"client_address,omitempty"`
	TechnicianID     *string    `json:"technician_id,omitempty"`
	JobDate          time.Time  `json:"job_date" validate:"required"`
	HoursSpent       float64    `json:"hours_spent" validate:"gte=0"`
	Revenue          float64    `json:"revenue" validate:"gte=0"`
	Cost             float64    `json:"cost" validate:"gte=0"`
	Status           string     `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Notes            *string    `json:"notes,omitempty"`
	JobType          string     `json:"job_type" validate:"required"`
	CallbackRequired bool       `json:"callback_required"`
	ScheduledDate    *time.Time `json:"scheduled_date,omitempty"`
	CompletedDate    *time.Time `json:"completed_date,omitempty"`
}

// JobUpdateDTO is used for incoming job update requests
type JobUpdateDTO struct {
	Title            *string    `json:"title,omitempty"`
	ClientName       *string    `json:"client_name,omitempty"`
	ClientAddress    *string    `json:"client_address,omitempty"`
	TechnicianID     *string    `json:"technician_id,omitempty"`
	JobDate          *time.Time `json:"job_date,omitempty"`
	HoursSpent       *float64   `json:"hours_spent,omitempty" validate:"omitempty,gte=0"`
	Revenue          *float64   `json:"revenue,omitempty" validate:"omitempty,gte=0"`
	Cost             *float64   `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Status           *string    `json:"status,omitempty" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Notes            *string    `json:"notes,omitempty"`
	JobType          *string    `json:"job_type,omitempty"`
	CallbackRequired *bool      `json:"callback_required,omitempty"`
	ScheduledDate    *time.Time `json:"scheduled_date,omitempty"`
	CompletedDate    *time.Time `json:"completed_date,omitempty"`
}
