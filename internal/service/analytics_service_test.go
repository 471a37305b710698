package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"app/internal/billing"
	"app/internal/model"

	"github.com/rs/zerolog"
)

func starterProfile(id string) *model.Profile {
	status := model.BillingStatusActive
	return &model.Profile{ID: id, PlanTier: billing.TierStarter, BillingStatus: &status}
}

func completedJob(id, techID string, date time.Time, revenue, cost, hours float64) model.Job {
	j := model.Job{
		ID:         id,
		UserID:     "user-1",
		Title:      "AC repair",
		ClientName: "Smith",
		JobDate:    date,
		HoursSpent: hours,
		Revenue:    revenue,
		Cost:       cost,
		Status:     model.JobStatusCompleted,
		JobType:    "repair",
	}
	if techID != "" {
		j.TechnicianID = &techID
	}
	return j
}

func activeTech(id string) model.Technician {
	return model.Technician{ID: id, UserID: "user-1", Name: "Tech " + id, Status: model.TechnicianStatusActive}
}

func newTestAnalyticsService(jobs *fakeJobRepo, techs *fakeTechRepo, snaps *fakeSnapshotRepo, profiles *fakeProfileRepo) *AnalyticsService {
	return NewAnalyticsService(jobs, techs, snaps, profiles, zerolog.Nop())
}

func TestKpisForRangeComputesFromCompletedJobs(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	jobs := &fakeJobRepo{jobs: []model.Job{
		completedJob("j1", "t1", day, 400, 100, 2),
		completedJob("j2", "t2", day.AddDate(0, 0, 1), 600, 150, 4),
	}}
	techs := &fakeTechRepo{techs: []model.Technician{activeTech("t1"), activeTech("t2")}}
	svc := newTestAnalyticsService(jobs, techs, &fakeSnapshotRepo{}, newFakeProfileRepo(starterProfile("user-1")))

	start := day.AddDate(0, 0, -3)
	end := day.AddDate(0, 0, 4)
	data, err := svc.KpisForRange(context.Background(), "user-1", start, end)
	if err != nil {
		t.Fatalf("KpisForRange returned error: %v", err)
	}
	if data.TotalRevenue != 1000 || data.TotalJobs != 2 {
		t.Errorf("unexpected totals: %+v", data)
	}
	if data.RevenuePerTechnician != 500 {
		t.Errorf("expected 500 revenue per technician, got %v", data.RevenuePerTechnician)
	}
	if data.AvgHours != 3 {
		t.Errorf("expected avg hours 3, got %v", data.AvgHours)
	}
}

func TestKpisForRangeRejectsRangeBeyondPlan(t *testing.T) {
	svc := newTestAnalyticsService(&fakeJobRepo{}, &fakeTechRepo{}, &fakeSnapshotRepo{}, newFakeProfileRepo(starterProfile("user-1")))

	end := time.Now()
	start := end.AddDate(0, 0, -90)
	_, err := svc.KpisForRange(context.Background(), "user-1", start, end)
	if !errors.Is(err, ErrRangeNotAllowed) {
		t.Fatalf("expected ErrRangeNotAllowed for 90 days on starter, got %v", err)
	}
}

func TestKpisForRangeAllowsLongRangeOnGrowth(t *testing.T) {
	p := starterProfile("user-1")
	p.PlanTier = billing.TierGrowth
	svc := newTestAnalyticsService(&fakeJobRepo{}, &fakeTechRepo{}, &fakeSnapshotRepo{}, newFakeProfileRepo(p))

	end := time.Now()
	start := end.AddDate(0, 0, -180)
	data, err := svc.KpisForRange(context.Background(), "user-1", start, end)
	if err != nil {
		t.Fatalf("expected 180 days allowed on growth, got %v", err)
	}
	if data.TotalJobs != 0 {
		t.Errorf("expected empty data, got %+v", data)
	}
}

func TestTechnicianKpisUnknownTechnician(t *testing.T) {
	svc := newTestAnalyticsService(&fakeJobRepo{}, &fakeTechRepo{}, &fakeSnapshotRepo{}, newFakeProfileRepo(starterProfile("user-1")))

	end := time.Now()
	_, err := svc.TechnicianKpis(context.Background(), "user-1", "ghost", end.AddDate(0, 0, -7), end)
	if !errors.Is(err, ErrTechnicianNotFound) {
		t.Fatalf("expected ErrTechnicianNotFound, got %v", err)
	}
}

func TestTechnicianKpisOnlyCountsOwnJobs(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	jobs := &fakeJobRepo{jobs: []model.Job{
		completedJob("j1", "t1", day, 400, 100, 2),
		completedJob("j2", "t2", day, 600, 150, 4),
	}}
	techs := &fakeTechRepo{techs: []model.Technician{activeTech("t1"), activeTech("t2")}}
	svc := newTestAnalyticsService(jobs, techs, &fakeSnapshotRepo{}, newFakeProfileRepo(starterProfile("user-1")))

	data, err := svc.TechnicianKpis(context.Background(), "user-1", "t1", day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("TechnicianKpis returned error: %v", err)
	}
	if data.JobsCompleted != 1 || data.TotalRevenue != 400 {
		t.Errorf("expected only t1 jobs, got %+v", data)
	}
}

func TestGenerateSnapshotForDateTruncatesToMidnight(t *testing.T) {
	day := time.Date(2026, 3, 10, 15, 42, 0, 0, time.UTC)
	jobs := &fakeJobRepo{jobs: []model.Job{
		completedJob("j1", "t1", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), 400, 100, 2),
	}}
	snaps := &fakeSnapshotRepo{}
	svc := newTestAnalyticsService(jobs, &fakeTechRepo{techs: []model.Technician{activeTech("t1")}}, snaps, newFakeProfileRepo(starterProfile("user-1")))

	if err := svc.GenerateSnapshotForDate(context.Background(), "user-1", day); err != nil {
		t.Fatalf("GenerateSnapshotForDate returned error: %v", err)
	}
	if len(snaps.upserts) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(snaps.upserts))
	}
	got := snaps.upserts[0]
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.SnapshotDate.Equal(want) {
		t.Errorf("expected snapshot date %v, got %v", want, got.SnapshotDate)
	}
	if got.TotalRevenue != 400 || got.TotalJobs != 1 {
		t.Errorf("unexpected snapshot metrics: %+v", got)
	}
}

func TestRegenerateSnapshotsDefaultsToNinetyDays(t *testing.T) {
	snaps := &fakeSnapshotRepo{}
	svc := newTestAnalyticsService(&fakeJobRepo{}, &fakeTechRepo{}, snaps, newFakeProfileRepo(starterProfile("user-1")))

	written, err := svc.RegenerateSnapshots(context.Background(), "user-1", 0)
	if err != nil {
		t.Fatalf("RegenerateSnapshots returned error: %v", err)
	}
	if written != 90 {
		t.Errorf("expected 90 snapshot days, got %d", written)
	}
	if len(snaps.upserts) != 90 {
		t.Errorf("expected 90 upserts, got %d", len(snaps.upserts))
	}
}

func TestIntervalDaysRoundsUpAndClamps(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := intervalDays(start, start.Add(36*time.Hour)); got != 2 {
		t.Errorf("expected 36h to round up to 2 days, got %d", got)
	}
	if got := intervalDays(start, start); got != 1 {
		t.Errorf("expected zero-length window to clamp to 1, got %d", got)
	}
	if got := intervalDays(start, start.AddDate(0, 0, 7)); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}
