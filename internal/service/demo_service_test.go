package service

import (
	"context"
	"errors"
	"testing"

	"app/internal/model"

	"github.com/rs/zerolog"
)

func newTestDemoService(jobs *fakeJobRepo, techs *fakeTechRepo, snaps *fakeSnapshotRepo, recs *fakeRecRepo, profiles *fakeProfileRepo) *DemoService {
	return NewDemoService(jobs, techs, snaps, recs, profiles, zerolog.Nop())
}

func TestDemoResetReportsCountsAndDisablesDemoMode(t *testing.T) {
	p := starterProfile("user-1")
	p.DemoMode = true
	profiles := newFakeProfileRepo(p)
	svc := newTestDemoService(
		&fakeJobRepo{deleted: 120},
		&fakeTechRepo{deleted: 3},
		&fakeSnapshotRepo{deleted: 90},
		&fakeRecRepo{deleted: 4},
		profiles,
	)

	stats, err := svc.Reset(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if stats.JobsDeleted != 120 || stats.TechniciansDeleted != 3 || stats.SnapshotsDeleted != 90 || stats.RecommendationsDeleted != 4 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	if stats.Message == "No demo data found to delete." {
		t.Error("expected non-empty reset message")
	}
	if p.DemoMode {
		t.Error("expected demo mode disabled after reset")
	}
}

func TestDemoResetEmptyAccount(t *testing.T) {
	p := starterProfile("user-1")
	profiles := newFakeProfileRepo(p)
	svc := newTestDemoService(&fakeJobRepo{}, &fakeTechRepo{}, &fakeSnapshotRepo{}, &fakeRecRepo{}, profiles)

	stats, err := svc.Reset(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if stats.Message != "No demo data found to delete." {
		t.Errorf("unexpected message: %q", stats.Message)
	}
}

func TestDemoSeedRequiresDemoMode(t *testing.T) {
	profiles := newFakeProfileRepo(starterProfile("user-1"))
	svc := newTestDemoService(&fakeJobRepo{}, &fakeTechRepo{}, &fakeSnapshotRepo{}, &fakeRecRepo{}, profiles)

	_, err := svc.Seed(context.Background(), "user-1")
	if !errors.Is(err, ErrDemoModeDisabled) {
		t.Fatalf("expected ErrDemoModeDisabled, got %v", err)
	}
}

func TestDemoSeedCreatesSampleData(t *testing.T) {
	p := starterProfile("user-1")
	p.DemoMode = true
	profiles := newFakeProfileRepo(p)
	jobs := &fakeJobRepo{}
	techs := &fakeTechRepo{}
	svc := newTestDemoService(jobs, techs, &fakeSnapshotRepo{}, &fakeRecRepo{}, profiles)

	stats, err := svc.Seed(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Seed returned error: %v", err)
	}
	if stats.TechniciansCreated != 3 {
		t.Errorf("expected 3 technicians, got %d", stats.TechniciansCreated)
	}
	if stats.JobsCreated < 90 {
		t.Errorf("expected at least one job per day over 90 days, got %d", stats.JobsCreated)
	}
	if len(jobs.created) != stats.JobsCreated {
		t.Errorf("stats disagree with created rows: %d vs %d", stats.JobsCreated, len(jobs.created))
	}
	for _, j := range jobs.created {
		if j.Status != model.JobStatusCompleted {
			t.Fatalf("expected completed demo jobs, got %q", j.Status)
		}
		if j.TechnicianID == nil {
			t.Fatal("expected technician assignment on demo job")
		}
	}
}
