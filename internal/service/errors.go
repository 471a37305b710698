package service

import "errors"

// Sentinel errors handlers translate into HTTP status codes.
var (
	ErrProfileNotFound        = errors.New("profile not found")
	ErrJobNotFound            = errors.New("job not found")
	ErrTechnicianNotFound     = errors.New("technician not found")
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrNoSubscription         = errors.New("no active subscription found")
	ErrNoStripeCustomer       = errors.New("no stripe customer found")
	ErrStripeNotConfigured    = errors.New("stripe is not configured")
	ErrInvalidPriceID         = errors.New("invalid stripe price id")
	ErrPaymentNotCompleted    = errors.New("payment not completed")
	ErrRangeNotAllowed        = errors.New("analytics range not available on current plan")
	ErrDemoModeDisabled       = errors.New("demo mode is not enabled for this account")
)

// PlanLimitError carries the user-facing message produced by plan validation,
// including the suggested upgrade.
type PlanLimitError struct {
	Message string
}

func (e *PlanLimitError) Error() string { return e.Message }
