package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"app/internal/model"
)

// fakeProfileRepo is an in-memory ProfileRepository that records every
// subscription update it receives.
type fakeProfileRepo struct {
	profiles map[string]*model.Profile
	updates  []model.SubscriptionUpdate
	updated  []string // user IDs in update order
}

func newFakeProfileRepo(profiles ...*model.Profile) *fakeProfileRepo {
	m := make(map[string]*model.Profile)
	for _, p := range profiles {
		m[p.ID] = p
	}
	return &fakeProfileRepo{profiles: m}
}

func (f *fakeProfileRepo) GetProfileByID(_ context.Context, id string) (*model.Profile, error) {
	return f.profiles[id], nil
}

func (f *fakeProfileRepo) GetProfileByStripeCustomerID(_ context.Context, customerID string) (*model.Profile, error) {
	for _, p := range f.profiles {
		if p.StripeCustomerID != nil && *p.StripeCustomerID == customerID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfileRepo) UpdateSubscription(_ context.Context, id string, u model.SubscriptionUpdate) error {
	if _, ok := f.profiles[id]; !ok {
		return fmt.Errorf("no profile %s", id)
	}
	f.updates = append(f.updates, u)
	f.updated = append(f.updated, id)
	p := f.profiles[id]
	if u.BillingStatus != nil {
		p.BillingStatus = u.BillingStatus
	}
	if u.AccountStatus != nil {
		p.AccountStatus = u.AccountStatus
	}
	if u.PlanTier != nil {
		p.PlanTier = *u.PlanTier
	}
	return nil
}

func (f *fakeProfileRepo) UpdateSettings(_ context.Context, id, companyName, themePreference string) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("no profile %s", id)
	}
	p.CompanyName = companyName
	p.ThemePreference = themePreference
	return nil
}

func (f *fakeProfileRepo) SetDemoMode(_ context.Context, id string, enabled bool) error {
	p, ok := f.profiles[id]
	if !ok {
		return fmt.Errorf("no profile %s", id)
	}
	p.DemoMode = enabled
	return nil
}

func (f *fakeProfileRepo) lastUpdate() *model.SubscriptionUpdate {
	if len(f.updates) == 0 {
		return nil
	}
	return &f.updates[len(f.updates)-1]
}

// fakeJobRepo serves a fixed slice of completed jobs.
type fakeJobRepo struct {
	jobs    []model.Job
	created []*model.Job
	deleted int64
	nextID  int
}

func (f *fakeJobRepo) ListJobs(_ context.Context, userID string) ([]model.Job, error) {
	return f.jobs, nil
}

func (f *fakeJobRepo) GetJob(_ context.Context, userID, id string) (*model.Job, error) {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			return &f.jobs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) CreateJob(_ context.Context, j *model.Job) error {
	f.nextID++
	j.ID = fmt.Sprintf("job-%d", f.nextID)
	f.created = append(f.created, j)
	return nil
}

func (f *fakeJobRepo) UpdateJob(_ context.Context, j *model.Job) error {
	for i := range f.jobs {
		if f.jobs[i].ID == j.ID {
			f.jobs[i] = *j
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeJobRepo) DeleteJob(_ context.Context, userID, id string) error {
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeJobRepo) ListCompletedJobsInRange(_ context.Context, userID string, start, end time.Time) ([]model.Job, error) {
	var out []model.Job
	for _, j := range f.jobs {
		if j.Status == model.JobStatusCompleted && !j.JobDate.Before(start) && !j.JobDate.After(end) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) ListCompletedJobsForTechnician(_ context.Context, userID, technicianID string, start, end time.Time) ([]model.Job, error) {
	var out []model.Job
	for _, j := range f.jobs {
		if j.Status != model.JobStatusCompleted || j.TechnicianID == nil || *j.TechnicianID != technicianID {
			continue
		}
		if !j.JobDate.Before(start) && !j.JobDate.After(end) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) DeleteJobsForUser(_ context.Context, userID string) (int64, error) {
	n := f.deleted
	f.jobs = nil
	return n, nil
}

// fakeTechRepo serves a fixed technician roster.
type fakeTechRepo struct {
	techs   []model.Technician
	created []*model.Technician
	deleted int64
	nextID  int
}

func (f *fakeTechRepo) ListTechnicians(_ context.Context, userID string) ([]model.Technician, error) {
	return f.techs, nil
}

func (f *fakeTechRepo) GetTechnician(_ context.Context, userID, id string) (*model.Technician, error) {
	for i := range f.techs {
		if f.techs[i].ID == id {
			return &f.techs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTechRepo) CreateTechnician(_ context.Context, t *model.Technician) error {
	f.nextID++
	t.ID = fmt.Sprintf("tech-%d", f.nextID)
	f.created = append(f.created, t)
	f.techs = append(f.techs, *t)
	return nil
}

func (f *fakeTechRepo) UpdateTechnician(_ context.Context, t *model.Technician) error {
	for i := range f.techs {
		if f.techs[i].ID == t.ID {
			f.techs[i] = *t
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeTechRepo) DeleteTechnician(_ context.Context, userID, id string) error {
	for i := range f.techs {
		if f.techs[i].ID == id {
			f.techs = append(f.techs[:i], f.techs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeTechRepo) CountTechnicians(_ context.Context, userID string) (int, error) {
	return len(f.techs), nil
}

func (f *fakeTechRepo) CountActiveTechnicians(_ context.Context, userID string) (int, error) {
	n := 0
	for _, t := range f.techs {
		if t.Status == model.TechnicianStatusActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeTechRepo) DeleteTechniciansForUser(_ context.Context, userID string) (int64, error) {
	n := f.deleted
	f.techs = nil
	return n, nil
}

// fakeSnapshotRepo records upserts keyed by snapshot date.
type fakeSnapshotRepo struct {
	upserts   []model.AnalyticsSnapshot
	snapshots []model.AnalyticsSnapshot
	deleted   int64
}

func (f *fakeSnapshotRepo) UpsertSnapshot(_ context.Context, s *model.AnalyticsSnapshot) error {
	f.upserts = append(f.upserts, *s)
	return nil
}

func (f *fakeSnapshotRepo) ListSnapshotsInRange(_ context.Context, userID string, start, end time.Time) ([]model.AnalyticsSnapshot, error) {
	return f.snapshots, nil
}

func (f *fakeSnapshotRepo) DeleteSnapshotsForUser(_ context.Context, userID string) (int64, error) {
	return f.deleted, nil
}

// fakeRecRepo is a minimal RecommendationRepository.
type fakeRecRepo struct {
	recs    []model.Recommendation
	deleted int64
}

func (f *fakeRecRepo) ListRecommendations(_ context.Context, userID string) ([]model.Recommendation, error) {
	return f.recs, nil
}

func (f *fakeRecRepo) CreateRecommendation(_ context.Context, rec *model.Recommendation) error {
	rec.ID = fmt.Sprintf("rec-%d", len(f.recs)+1)
	f.recs = append(f.recs, *rec)
	return nil
}

func (f *fakeRecRepo) UpdateRecommendation(_ context.Context, rec *model.Recommendation) error {
	for i := range f.recs {
		if f.recs[i].ID == rec.ID {
			f.recs[i] = *rec
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRecRepo) SetDismissed(_ context.Context, userID, id string, dismissed bool) error {
	for i := range f.recs {
		if f.recs[i].ID == id {
			f.recs[i].Dismissed = dismissed
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRecRepo) DeleteRecommendation(_ context.Context, userID, id string) error {
	for i := range f.recs {
		if f.recs[i].ID == id {
			f.recs = append(f.recs[:i], f.recs[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeRecRepo) DeleteRecommendationsForUser(_ context.Context, userID string) (int64, error) {
	return f.deleted, nil
}
