package model

import "time"

// EmailLead is a landing-page email capture.
type EmailLead struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Source    string    `db:"source" json:"source"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConsultationRequest is a landing-page consultation form submission.
type ConsultationRequest struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	CompanyName *string   `db:"company_name" json:"company_name,omitempty"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	Message     *string   `db:"message" json:"message,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
