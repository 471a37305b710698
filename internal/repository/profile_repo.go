package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"app/internal/model"
)

// ProfileRepository defines methods for accessing tenant profiles. Profiles
// are created by a database trigger at signup and never hard-deleted here.
type ProfileRepository interface {
	GetProfileByID(ctx context.Context, id string) (*model.Profile, error)
	GetProfileByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error)
	UpdateSubscription(ctx context.Context, id string, u model.SubscriptionUpdate) error
	UpdateSettings(ctx context.Context, id, companyName, themePreference string) error
	SetDemoMode(ctx context.Context, id string, enabled bool) error
}

type profileRepo struct {
	db *sql.DB
}

// NewProfileRepo creates a new ProfileRepository.
func NewProfileRepo(db *sql.DB) ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, email, company_name, plan_tier, billing_status, stripe_customer_id,
        stripe_subscription_id, trial_end_date, grace_period_end, subscription_start,
        subscription_end, account_status, demo_mode, theme_preference, created_at, updated_at`

func scanProfile(row *sql.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.CompanyName,
		&p.PlanTier,
		&p.BillingStatus,
		&p.StripeCustomerID,
		&p.StripeSubscriptionID,
		&p.TrialEndDate,
		&p.GracePeriodEnd,
		&p.SubscriptionStart,
		&p.SubscriptionEnd,
		&p.AccountStatus,
		&p.DemoMode,
		&p.ThemePreference,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) GetProfileByID(ctx context.Context, id string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *profileRepo) GetProfileByStripeCustomerID(ctx context.Context, customerID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE stripe_customer_id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, query, customerID))
}

// UpdateSubscription writes only the billing fields present in u. A nil field
// is left untouched, so checkout, cancel and webhook flows can each update
// their own slice of the row.
func (r *profileRepo) UpdateSubscription(ctx context.Context, id string, u model.SubscriptionUpdate) error {
	sets := []string{}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if u.StripeCustomerID != nil {
		add("stripe_customer_id", *u.StripeCustomerID)
	}
	if u.StripeSubscriptionID != nil {
		add("stripe_subscription_id", *u.StripeSubscriptionID)
	}
	if u.PlanTier != nil {
		add("plan_tier", *u.PlanTier)
	}
	if u.BillingStatus != nil {
		add("billing_status", *u.BillingStatus)
	}
	if u.SubscriptionStart != nil {
		add("subscription_start", *u.SubscriptionStart)
	}
	if u.SubscriptionEnd != nil {
		add("subscription_end", *u.SubscriptionEnd)
	}
	if u.TrialEndDate != nil {
		add("trial_end_date", *u.TrialEndDate)
	}
	if u.AccountStatus != nil {
		add("account_status", *u.AccountStatus)
	}

	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := `UPDATE profiles SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update subscription for profile %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update subscription: profile %s not found", id)
	}
	return nil
}

func (r *profileRepo) UpdateSettings(ctx context.Context, id, companyName, themePreference string) error {
	query := `UPDATE profiles SET company_name = $2, theme_preference = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, companyName, themePreference); err != nil {
		return fmt.Errorf("update settings for profile %s: %w", id, err)
	}
	return nil
}

func (r *profileRepo) SetDemoMode(ctx context.Context, id string, enabled bool) error {
	query := `UPDATE profiles SET demo_mode = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, enabled); err != nil {
		return fmt.Errorf("set demo_mode for profile %s: %w", id, err)
	}
	return nil
}
