package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// RecommendationService manages generated insight rows for a tenant.
type RecommendationService struct {
	recRepo repository.RecommendationRepository
	logger  zerolog.Logger
}

// NewRecommendationService creates a RecommendationService with a scoped
// logger.
func NewRecommendationService(recRepo repository.RecommendationRepository, logger zerolog.Logger) *RecommendationService {
	lg := logger.With().Str("service", "RecommendationService").Logger()
	return &RecommendationService{recRepo: recRepo, logger: lg}
}

func (s *RecommendationService) ListRecommendations(ctx context.Context, userID string) ([]model.Recommendation, error) {
	recs, err := s.recRepo.ListRecommendations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}

func (s *RecommendationService) CreateRecommendation(ctx context.Context, rec *model.Recommendation) (*model.Recommendation, error) {
	if err := s.recRepo.CreateRecommendation(ctx, rec); err != nil {
		return nil, fmt.Errorf("create recommendation: %w", err)
	}
	return rec, nil
}

// UpdateRecommendation replaces a recommendation's content and dismissed
// flag.
func (s *RecommendationService) UpdateRecommendation(ctx context.Context, rec *model.Recommendation) (*model.Recommendation, error) {
	if err := s.recRepo.UpdateRecommendation(ctx, rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecommendationNotFound
		}
		return nil, fmt.Errorf("update recommendation: %w", err)
	}
	return rec, nil
}

// DismissRecommendation marks a recommendation as dismissed without deleting
// it or touching its content.
func (s *RecommendationService) DismissRecommendation(ctx context.Context, userID, id string) error {
	if err := s.recRepo.SetDismissed(ctx, userID, id, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecommendationNotFound
		}
		return fmt.Errorf("dismiss recommendation: %w", err)
	}
	return nil
}

func (s *RecommendationService) DeleteRecommendation(ctx context.Context, userID, id string) error {
	if err := s.recRepo.DeleteRecommendation(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecommendationNotFound
		}
		return fmt.Errorf("delete recommendation: %w", err)
	}
	return nil
}
