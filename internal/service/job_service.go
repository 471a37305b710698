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

// JobService manages job CRUD for a tenant.
type JobService struct {
	jobRepo repository.JobRepository
	logger  zerolog.Logger
}

// NewJobService creates a JobService with a scoped logger.
func NewJobService(jobRepo repository.JobRepository, logger zerolog.Logger) *JobService {
	lg := logger.With().Str("service", "JobService").Logger()
	return &JobService{jobRepo: jobRepo, logger: lg}
}

func (s *JobService) ListJobs(ctx context.Context, userID string) ([]model.Job, error) {
	jobs, err := s.jobRepo.ListJobs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobService) GetJob(ctx context.Context, userID, id string) (*model.Job, error) {
	job, err := s.jobRepo.GetJob(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

func (s *JobService) CreateJob(ctx context.Context, j *model.Job) (*model.Job, error) {
	if j.Status == "" {
		j.Status = model.JobStatusScheduled
	}
	if err := s.jobRepo.CreateJob(ctx, j); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	s.logger.Info().Str("user_id", j.UserID).Str("job_id", j.ID).Msg("Job created")
	return j, nil
}

func (s *JobService) UpdateJob(ctx context.Context, j *model.Job) (*model.Job, error) {
	if err := s.jobRepo.UpdateJob(ctx, j); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return j, nil
}

func (s *JobService) DeleteJob(ctx context.Context, userID, id string) error {
	if err := s.jobRepo.DeleteJob(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("delete job: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("job_id", id).Msg("Job deleted")
	return nil
}
