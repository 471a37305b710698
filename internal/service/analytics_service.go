package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"app/internal/billing"
	"app/internal/kpi"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// AnalyticsService computes dashboard KPIs from completed jobs and maintains
// the daily snapshot rollups. Live KPI reads never touch snapshots; snapshots
// exist for historical trend charts.
type AnalyticsService struct {
	jobRepo      repository.JobRepository
	techRepo     repository.TechnicianRepository
	snapshotRepo repository.SnapshotRepository
	profileRepo  repository.ProfileRepository
	logger       zerolog.Logger
}

// NewAnalyticsService creates an AnalyticsService with a scoped logger.
func NewAnalyticsService(
	jobRepo repository.JobRepository,
	techRepo repository.TechnicianRepository,
	snapshotRepo repository.SnapshotRepository,
	profileRepo repository.ProfileRepository,
	logger zerolog.Logger,
) *AnalyticsService {
	lg := logger.With().Str("service", "AnalyticsService").Logger()
	return &AnalyticsService{
		jobRepo:      jobRepo,
		techRepo:     techRepo,
		snapshotRepo: snapshotRepo,
		profileRepo:  profileRepo,
		logger:       lg,
	}
}

// intervalDays converts a [start, end] window into whole days, rounding up
// and clamping to at least one day.
func intervalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// checkRange rejects windows longer than the tenant's plan allows.
func (s *AnalyticsService) checkRange(ctx context.Context, userID string, start, end time.Time) error {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return ErrProfileNotFound
	}
	if !billing.CanAccessTimeRange(profile.PlanTier, intervalDays(start, end)) {
		return ErrRangeNotAllowed
	}
	return nil
}

// KpisForRange computes the ten tenant KPIs over completed jobs in the
// window.
func (s *AnalyticsService) KpisForRange(ctx context.Context, userID string, start, end time.Time) (kpi.Data, error) {
	if err := s.checkRange(ctx, userID, start, end); err != nil {
		return kpi.Data{}, err
	}

	jobs, err := s.jobRepo.ListCompletedJobsInRange(ctx, userID, start, end)
	if err != nil {
		return kpi.Data{}, fmt.Errorf("list completed jobs: %w", err)
	}
	techs, err := s.techRepo.CountActiveTechnicians(ctx, userID)
	if err != nil {
		return kpi.Data{}, fmt.Errorf("count active technicians: %w", err)
	}
	return kpi.Compute(jobs, techs, intervalDays(start, end)), nil
}

// TechnicianKpis computes one technician's metric subset over the window.
func (s *AnalyticsService) TechnicianKpis(ctx context.Context, userID, technicianID string, start, end time.Time) (kpi.TechnicianData, error) {
	if err := s.checkRange(ctx, userID, start, end); err != nil {
		return kpi.TechnicianData{}, err
	}

	tech, err := s.techRepo.GetTechnician(ctx, userID, technicianID)
	if err != nil {
		return kpi.TechnicianData{}, fmt.Errorf("fetch technician: %w", err)
	}
	if tech == nil {
		return kpi.TechnicianData{}, ErrTechnicianNotFound
	}

	jobs, err := s.jobRepo.ListCompletedJobsForTechnician(ctx, userID, technicianID, start, end)
	if err != nil {
		return kpi.TechnicianData{}, fmt.Errorf("list technician jobs: %w", err)
	}
	return kpi.ComputeTechnician(jobs), nil
}

// SnapshotsForRange returns the stored daily rollups in the window, gated by
// the tenant's plan range.
func (s *AnalyticsService) SnapshotsForRange(ctx context.Context, userID string, start, end time.Time) ([]model.AnalyticsSnapshot, error) {
	if err := s.checkRange(ctx, userID, start, end); err != nil {
		return nil, err
	}
	snapshots, err := s.snapshotRepo.ListSnapshotsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snapshots, nil
}

// GenerateSnapshotForDate rolls one calendar day of completed jobs into a
// snapshot row, replacing any existing row for that day.
func (s *AnalyticsService) GenerateSnapshotForDate(ctx context.Context, userID string, date time.Time) error {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Second)

	jobs, err := s.jobRepo.ListCompletedJobsInRange(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("list completed jobs for %s: %w", dayStart.Format("2006-01-02"), err)
	}
	techs, err := s.techRepo.CountActiveTechnicians(ctx, userID)
	if err != nil {
		return fmt.Errorf("count active technicians: %w", err)
	}

	d := kpi.Compute(jobs, techs, 1)
	snapshot := model.AnalyticsSnapshot{
		UserID:                    userID,
		SnapshotDate:              dayStart,
		TotalRevenue:              d.TotalRevenue,
		TotalJobs:                 d.TotalJobs,
		AvgHoursPerJob:            d.AvgHours,
		GrossMargin:               d.GrossMargin,
		AvgJobRevenue:             d.AvgJobRevenue,
		FirstTimeFixRate:          d.FirstTimeFixRate,
		AvgResponseTime:           d.AvgResponseTime,
		RevenuePerTechnician:      d.RevenuePerTechnician,
		JobsPerTechPerWeek:        d.JobsPerTechPerWeek,
		MaintenanceCompletionRate: d.MaintenanceCompletionRate,
	}
	return s.snapshotRepo.UpsertSnapshot(ctx, &snapshot)
}

// RegenerateSnapshots rebuilds the daily rollups for the past daysBack days
// (default 90) and returns how many days were written. Days that fail are
// logged and skipped so one bad day does not abort the rebuild.
func (s *AnalyticsService) RegenerateSnapshots(ctx context.Context, userID string, daysBack int) (int, error) {
	if daysBack <= 0 {
		daysBack = 90
	}

	written := 0
	now := time.Now()
	for i := 0; i < daysBack; i++ {
		date := now.AddDate(0, 0, -i)
		if err := s.GenerateSnapshotForDate(ctx, userID, date); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Str("date", date.Format("2006-01-02")).Msg("Failed to regenerate snapshot")
			continue
		}
		written++
	}
	s.logger.Info().Str("user_id", userID).Int("days", written).Msg("Snapshots regenerated")
	return written, nil
}
