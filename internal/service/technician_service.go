package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/billing"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// TechnicianService manages technician CRUD and enforces plan technician
// caps on creation.
type TechnicianService struct {
	techRepo    repository.TechnicianRepository
	profileRepo repository.ProfileRepository
	logger      zerolog.Logger
}

// NewTechnicianService creates a TechnicianService with a scoped logger.
func NewTechnicianService(techRepo repository.TechnicianRepository, profileRepo repository.ProfileRepository, logger zerolog.Logger) *TechnicianService {
	lg := logger.With().Str("service", "TechnicianService").Logger()
	return &TechnicianService{techRepo: techRepo, profileRepo: profileRepo, logger: lg}
}

func (s *TechnicianService) ListTechnicians(ctx context.Context, userID string) ([]model.Technician, error) {
	techs, err := s.techRepo.ListTechnicians(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	return techs, nil
}

func (s *TechnicianService) GetTechnician(ctx context.Context, userID, id string) (*model.Technician, error) {
	tech, err := s.techRepo.GetTechnician(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get technician: %w", err)
	}
	if tech == nil {
		return nil, ErrTechnicianNotFound
	}
	return tech, nil
}

// CreateTechnician adds a technician after checking the tenant's plan cap
// against the current total count.
func (s *TechnicianService) CreateTechnician(ctx context.Context, t *model.Technician) (*model.Technician, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	count, err := s.techRepo.CountTechnicians(ctx, t.UserID)
	if err != nil {
		return nil, fmt.Errorf("count technicians: %w", err)
	}
	if result := billing.CanAddTechnicians(profile.PlanTier, count, 1); !result.Valid {
		s.logger.Info().Str("user_id", t.UserID).Str("plan_tier", profile.PlanTier).Int("count", count).Msg("Technician cap reached")
		return nil, &PlanLimitError{Message: result.Error}
	}

	if t.Status == "" {
		t.Status = model.TechnicianStatusActive
	}
	if err := s.techRepo.CreateTechnician(ctx, t); err != nil {
		return nil, fmt.Errorf("create technician: %w", err)
	}
	s.logger.Info().Str("user_id", t.UserID).Str("technician_id", t.ID).Msg("Technician created")
	return t, nil
}

func (s *TechnicianService) UpdateTechnician(ctx context.Context, t *model.Technician) (*model.Technician, error) {
	if err := s.techRepo.UpdateTechnician(ctx, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTechnicianNotFound
		}
		return nil, fmt.Errorf("update technician: %w", err)
	}
	return t, nil
}

func (s *TechnicianService) DeleteTechnician(ctx context.Context, userID, id string) error {
	if err := s.techRepo.DeleteTechnician(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTechnicianNotFound
		}
		return fmt.Errorf("delete technician: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("technician_id", id).Msg("Technician deleted")
	return nil
}
