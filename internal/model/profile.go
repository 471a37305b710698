package model

import "time"

// Billing status values stored on a profile.
const (
	BillingStatusTrialing  = "trialing"
	BillingStatusActive    = "active"
	BillingStatusPastDue   = "past_due"
	BillingStatusCancelled = "cancelled"
)

// Account status values stored on a profile.
const (
	AccountStatusActive    = "active"
	AccountStatusSuspended = "suspended"
)

// Profile represents one tenant of the system. Rows are created by a database
// trigger at signup and are never hard-deleted (soft-retained 30 days).
type Profile struct {
	ID                   string     `db:"id" json:"id"`
	Email                string     `db:"email" json:"email"`
	CompanyName          string     `db:"company_name" json:"company_name"`
	PlanTier             string     `db:"plan_tier" json:"plan_tier"`
	BillingStatus        *string    `db:"billing_status" json:"billing_status,omitempty"`
	StripeCustomerID     *string    `db:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `db:"stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	TrialEndDate         *time.Time `db:"trial_end_date" json:"trial_end_date,omitempty"`
	GracePeriodEnd       *time.Time `db:"grace_period_end" json:"grace_period_end,omitempty"`
	SubscriptionStart    *time.Time `db:"subscription_start" json:"subscription_start,omitempty"`
	SubscriptionEnd      *time.Time `db:"subscription_end" json:"subscription_end,omitempty"`
	AccountStatus        *string    `db:"account_status" json:"account_status,omitempty"`
	DemoMode             bool       `db:"demo_mode" json:"demo_mode"`
	ThemePreference      string     `db:"theme_preference" json:"theme_preference"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// SubscriptionUpdate carries the billing fields written back to a profile by
// the checkout/webhook/cancel flows.
type SubscriptionUpdate struct {
	StripeCustomerID     *string
	StripeSubscriptionID *string
	PlanTier             *string
	BillingStatus        *string
	SubscriptionStart    *time.Time
	SubscriptionEnd      *time.Time
	TrialEndDate         *time.Time
	AccountStatus        *string
}
