package billing

import (
	"fmt"
	"math"
	"time"

	"app/internal/model"
)

// Phase is the discrete lifecycle position of a profile.
type Phase string

const (
	PhasePaid           Phase = "paid"
	PhaseTrialActive    Phase = "trial_active"
	PhaseTrialCountdown Phase = "trial_countdown"
	PhaseGracePeriod    Phase = "grace_period"
	PhaseExpired        Phase = "expired"
)

// Urgency is the severity a consumer should render the state with.
type Urgency string

const (
	UrgencyNone    Urgency = "none"
	UrgencyInfo    Urgency = "info"
	UrgencyWarning Urgency = "warning"
	UrgencyDanger  Urgency = "danger"
)

const (
	// CountdownWindow is how long before trial end the countdown is shown.
	CountdownWindow = 72 * time.Hour
	// DangerWindow is when the countdown escalates from warning to danger.
	DangerWindow = 24 * time.Hour
	// DefaultGraceWindow applies when no explicit grace_period_end is stored.
	DefaultGraceWindow = 48 * time.Hour
)

// State is the evaluated billing position of a profile at a point in time.
type State struct {
	Phase          Phase   `json:"phase"`
	Urgency        Urgency `json:"urgency"`
	Message        string  `json:"message"`
	HoursRemaining float64 `json:"hours_remaining"`
	ShowCountdown  bool    `json:"show_countdown"`
}

// Evaluate maps a profile's stored billing fields onto a lifecycle phase.
// It is a pure function; callers decide whether to block access.
func Evaluate(p *model.Profile, now time.Time) State {
	hasCustomer := p.StripeCustomerID != nil && *p.StripeCustomerID != ""
	status := ""
	if p.BillingStatus != nil {
		status = *p.BillingStatus
	}

	if hasCustomer && status == model.BillingStatusActive {
		return State{Phase: PhasePaid, Urgency: UrgencyNone}
	}

	if p.TrialEndDate == nil {
		return State{
			Phase:   PhaseExpired,
			Urgency: UrgencyDanger,
			Message: "Your trial has ended. Please add a payment method to continue using the service.",
		}
	}

	trialEnd := *p.TrialEndDate
	remaining := trialEnd.Sub(now)

	if remaining > CountdownWindow {
		days := int(math.Ceil(remaining.Hours() / 24))
		return State{
			Phase:          PhaseTrialActive,
			Urgency:        UrgencyNone,
			Message:        fmt.Sprintf("Your free trial has %d day%s remaining.", days, plural(days)),
			HoursRemaining: remaining.Hours(),
		}
	}

	if remaining > 0 {
		urgency := UrgencyWarning
		if remaining < DangerWindow {
			urgency = UrgencyDanger
		}
		return State{
			Phase:          PhaseTrialCountdown,
			Urgency:        urgency,
			Message:        fmt.Sprintf("Your free trial ends in %s. Add a payment method to keep access.", FormatTimeRemaining(remaining.Hours())),
			HoursRemaining: remaining.Hours(),
			ShowCountdown:  true,
		}
	}

	graceEnd := trialEnd.Add(DefaultGraceWindow)
	if p.GracePeriodEnd != nil {
		graceEnd = *p.GracePeriodEnd
	}
	if now.Before(graceEnd) {
		left := graceEnd.Sub(now)
		return State{
			Phase:          PhaseGracePeriod,
			Urgency:        UrgencyDanger,
			Message:        fmt.Sprintf("Your trial has ended. Add a payment method within %s to avoid suspension.", FormatTimeRemaining(left.Hours())),
			HoursRemaining: left.Hours(),
			ShowCountdown:  true,
		}
	}

	return State{
		Phase:   PhaseExpired,
		Urgency: UrgencyDanger,
		Message: "Your trial has ended. Please add a payment method to continue using the service.",
	}
}

// Suspended reports whether access should be blocked: the profile is past
// trial and grace with no payment-method reference on file. A trialing
// profile without a Stripe customer still counts as having no payment method.
func Suspended(p *model.Profile, now time.Time) bool {
	hasCustomer := p.StripeCustomerID != nil && *p.StripeCustomerID != ""
	return Evaluate(p, now).Phase == PhaseExpired && !hasCustomer
}

// FormatTimeRemaining renders a fractional hour count as "2d 5h" or "5h 30m".
func FormatTimeRemaining(hours float64) string {
	if hours < 0 {
		hours = 0
	}
	if hours >= 24 {
		d := int(hours) / 24
		h := int(hours) % 24
		return fmt.Sprintf("%dd %dh", d, h)
	}
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return fmt.Sprintf("%dh %dm", h, m)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
