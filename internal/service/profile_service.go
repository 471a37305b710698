package service

import (
	"context"
	"fmt"
	"time"

	"app/internal/billing"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// BillingView is the derived billing state returned to the dashboard banner.
type BillingView struct {
	State         billing.State `json:"state"`
	Suspended     bool          `json:"suspended"`
	PlanTier      string        `json:"plan_tier"`
	PlanName      string        `json:"plan_name"`
	TimeRemaining string        `json:"time_remaining,omitempty"`
}

// ProfileService reads and updates tenant profiles and derives their billing
// state.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	logger      zerolog.Logger
}

// NewProfileService creates a ProfileService with a scoped logger.
func NewProfileService(profileRepo repository.ProfileRepository, logger zerolog.Logger) *ProfileService {
	lg := logger.With().Str("service", "ProfileService").Logger()
	return &ProfileService{profileRepo: profileRepo, logger: lg}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// BillingState evaluates the profile's trial/grace/paid phase as of now.
func (s *ProfileService) BillingState(ctx context.Context, userID string) (*BillingView, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	state := billing.Evaluate(profile, now)
	view := &BillingView{
		State:     state,
		Suspended: billing.Suspended(profile, now),
		PlanTier:  profile.PlanTier,
		PlanName:  billing.DisplayName(profile.PlanTier),
	}
	if state.ShowCountdown {
		view.TimeRemaining = billing.FormatTimeRemaining(state.HoursRemaining)
	}
	return view, nil
}

func (s *ProfileService) UpdateSettings(ctx context.Context, userID, companyName, themePreference string) (*model.Profile, error) {
	if err := s.profileRepo.UpdateSettings(ctx, userID, companyName, themePreference); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return s.GetProfile(ctx, userID)
}
