package service

import (
	"context"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// LeadService records landing-page signups and consultation requests. Both
// endpoints are unauthenticated, so nothing here reads tenant state.
type LeadService struct {
	leadRepo repository.LeadRepository
	logger   zerolog.Logger
}

// NewLeadService creates a LeadService with a scoped logger.
func NewLeadService(leadRepo repository.LeadRepository, logger zerolog.Logger) *LeadService {
	lg := logger.With().Str("service", "LeadService").Logger()
	return &LeadService{leadRepo: leadRepo, logger: lg}
}

// CaptureEmail stores an email lead. Duplicate submissions succeed silently.
func (s *LeadService) CaptureEmail(ctx context.Context, email, source string) error {
	if source == "" {
		source = "landing_page"
	}
	lead := &model.EmailLead{Email: email, Source: source}
	if err := s.leadRepo.CreateEmailLead(ctx, lead); err != nil {
		return fmt.Errorf("capture email lead: %w", err)
	}
	s.logger.Info().Str("source", source).Msg("Email lead captured")
	return nil
}

// RequestConsultation stores a consultation form submission.
func (s *LeadService) RequestConsultation(ctx context.Context, req *model.ConsultationRequest) error {
	if err := s.leadRepo.CreateConsultationRequest(ctx, req); err != nil {
		return fmt.Errorf("create consultation request: %w", err)
	}
	s.logger.Info().Str("email", req.Email).Msg("Consultation requested")
	return nil
}
