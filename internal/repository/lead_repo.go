package repository

import (
	"context"
	"database/sql"
	"fmt"

	"app/internal/model"
)

// LeadRepository defines methods for landing-page lead capture.
type LeadRepository interface {
	CreateEmailLead(ctx context.Context, lead *model.EmailLead) error
	CreateConsultationRequest(ctx context.Context, req *model.ConsultationRequest) error
}

type leadRepo struct {
	db *sql.DB
}

// NewLeadRepo creates a new LeadRepository.
func NewLeadRepo(db *sql.DB) LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) CreateEmailLead(ctx context.Context, lead *model.EmailLead) error {
	query := `INSERT INTO email_leads (email, source) VALUES ($1, $2)
              ON CONFLICT (email) DO NOTHING
              RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, lead.Email, lead.Source).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		// Duplicate emails are silently accepted.
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("create email lead: %w", err)
	}
	return nil
}

func (r *leadRepo) CreateConsultationRequest(ctx context.Context, req *model.ConsultationRequest) error {
	query := `INSERT INTO consultation_requests (name, email, company_name, phone, message)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Email, req.CompanyName, req.Phone, req.Message).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create consultation request: %w", err)
	}
	return nil
}
