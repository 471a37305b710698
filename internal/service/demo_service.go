package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
)

// DemoResetStats reports how many rows a demo reset removed.
type DemoResetStats struct {
	JobsDeleted            int64  `json:"jobs_deleted"`
	TechniciansDeleted     int64  `json:"technicians_deleted"`
	SnapshotsDeleted       int64  `json:"snapshots_deleted"`
	RecommendationsDeleted int64  `json:"recommendations_deleted"`
	Message                string `json:"message"`
}

// DemoSeedStats reports how many rows a demo seed created.
type DemoSeedStats struct {
	TechniciansCreated int    `json:"technicians_created"`
	JobsCreated        int    `json:"jobs_created"`
	Message            string `json:"message"`
}

// DemoService wipes and reseeds sample data for accounts in demo mode.
type DemoService struct {
	jobRepo      repository.JobRepository
	techRepo     repository.TechnicianRepository
	snapshotRepo repository.SnapshotRepository
	recRepo      repository.RecommendationRepository
	profileRepo  repository.ProfileRepository
	logger       zerolog.Logger
}

// NewDemoService creates a DemoService with a scoped logger.
func NewDemoService(
	jobRepo repository.JobRepository,
	techRepo repository.TechnicianRepository,
	snapshotRepo repository.SnapshotRepository,
	recRepo repository.RecommendationRepository,
	profileRepo repository.ProfileRepository,
	logger zerolog.Logger,
) *DemoService {
	lg := logger.With().Str("service", "DemoService").Logger()
	return &DemoService{
		jobRepo:      jobRepo,
		techRepo:     techRepo,
		snapshotRepo: snapshotRepo,
		recRepo:      recRepo,
		profileRepo:  profileRepo,
		logger:       lg,
	}
}

// Reset deletes every demo row for the tenant and turns demo mode off.
// Deletions run in dependency order so job rows never reference a removed
// technician mid-reset.
func (s *DemoService) Reset(ctx context.Context, userID string) (*DemoResetStats, error) {
	jobs, err := s.jobRepo.DeleteJobsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete demo jobs: %w", err)
	}
	techs, err := s.techRepo.DeleteTechniciansForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete demo technicians: %w", err)
	}
	snapshots, err := s.snapshotRepo.DeleteSnapshotsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete demo snapshots: %w", err)
	}
	recs, err := s.recRepo.DeleteRecommendationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("delete demo recommendations: %w", err)
	}

	if err := s.profileRepo.SetDemoMode(ctx, userID, false); err != nil {
		return nil, fmt.Errorf("disable demo mode: %w", err)
	}

	stats := &DemoResetStats{
		JobsDeleted:            jobs,
		TechniciansDeleted:     techs,
		SnapshotsDeleted:       snapshots,
		RecommendationsDeleted: recs,
	}
	total := jobs + techs + snapshots + recs
	if total == 0 {
		stats.Message = "No demo data found to delete."
	} else {
		stats.Message = fmt.Sprintf("Demo data cleared: %d rows removed.", total)
	}
	s.logger.Info().Str("user_id", userID).Int64("rows", total).Msg("Demo data reset")
	return stats, nil
}

var demoTechnicians = []string{"Mike Rodriguez", "Sarah Chen", "James Walker"}

var demoJobTemplates = []struct {
	title   string
	jobType string
	revenue float64
	cost    float64
	hours   float64
}{
	{"AC unit replacement", "installation", 4800, 2900, 6},
	{"Furnace repair", "repair", 650, 180, 2.5},
	{"Seasonal maintenance visit", "maintenance", 189, 45, 1},
	{"Duct cleaning", "maintenance", 420, 110, 3},
	{"Thermostat install", "installation", 310, 95, 1.5},
	{"Emergency heat pump repair", "repair", 890, 260, 3.5},
}

// Seed fills a demo-mode account with sample technicians and 90 days of
// completed jobs. Accounts not in demo mode are refused.
func (s *DemoService) Seed(ctx context.Context, userID string) (*DemoSeedStats, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	if !profile.DemoMode {
		return nil, ErrDemoModeDisabled
	}

	techIDs := make([]string, 0, len(demoTechnicians))
	for _, name := range demoTechnicians {
		t := &model.Technician{UserID: userID, Name: name, Status: model.TechnicianStatusActive}
		if err := s.techRepo.CreateTechnician(ctx, t); err != nil {
			return nil, fmt.Errorf("seed technician %q: %w", name, err)
		}
		techIDs = append(techIDs, t.ID)
	}

	// Deterministic per tenant so repeated seeds look stable.
	rng := rand.New(rand.NewSource(int64(len(userID)) * 7919))
	now := time.Now()
	jobsCreated := 0
	for day := 0; day < 90; day++ {
		perDay := 1 + rng.Intn(3)
		for n := 0; n < perDay; n++ {
			tmpl := demoJobTemplates[rng.Intn(len(demoJobTemplates))]
			techID := techIDs[rng.Intn(len(techIDs))]
			jobDate := now.AddDate(0, 0, -day)
			scheduled := jobDate.Add(-time.Duration(2+rng.Intn(6)) * time.Hour)
			completed := jobDate

			j := &model.Job{
				UserID:           userID,
				TechnicianID:     &techID,
				Title:            tmpl.title,
				ClientName:       fmt.Sprintf("Demo Client %d", jobsCreated+1),
				JobDate:          jobDate,
				HoursSpent:       tmpl.hours,
				Revenue:          tmpl.revenue,
				Cost:             tmpl.cost,
				Status:           model.JobStatusCompleted,
				JobType:          tmpl.jobType,
				CallbackRequired: rng.Intn(10) == 0,
				ScheduledDate:    &scheduled,
				CompletedDate:    &completed,
			}
			if err := s.jobRepo.CreateJob(ctx, j); err != nil {
				return nil, fmt.Errorf("seed job: %w", err)
			}
			jobsCreated++
		}
	}

	s.logger.Info().Str("user_id", userID).Int("jobs", jobsCreated).Msg("Demo data seeded")
	return &DemoSeedStats{
		TechniciansCreated: len(techIDs),
		JobsCreated:        jobsCreated,
		Message:            fmt.Sprintf("Seeded %d technicians and %d jobs.", len(techIDs), jobsCreated),
	}, nil
}
