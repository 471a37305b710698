package billing

import "fmt"

// Plan tiers.
const (
	TierStarter = "starter"
	TierGrowth  = "growth"
	TierPro     = "pro"
)

// UnlimitedTechnicians marks a plan with no technician cap.
const UnlimitedTechnicians = -1

// Limits gates what a tenant on a given tier may do.
type Limits struct {
	MaxTechnicians   int
	AnalyticsRange   int // days
	ExportEnabled    bool
	AdvancedFeatures bool
}

// Plan is one entry of the static pricing catalog.
type Plan struct {
	Tier         string
	Name         string
	PriceMonthly int
	Limits       Limits
}

var plans = map[string]Plan{
	TierStarter: {
		Tier:         TierStarter,
		Name:         "Starter",
		PriceMonthly: 49,
		Limits:       Limits{MaxTechnicians: 3, AnalyticsRange: 30},
	},
	TierGrowth: {
		Tier:         TierGrowth,
		Name:         "Growth",
		PriceMonthly: 99,
		Limits:       Limits{MaxTechnicians: 10, AnalyticsRange: 365, ExportEnabled: true, AdvancedFeatures: true},
	},
	TierPro: {
		Tier:         TierPro,
		Name:         "Pro",
		PriceMonthly: 199,
		Limits:       Limits{MaxTechnicians: UnlimitedTechnicians, AnalyticsRange: 365, ExportEnabled: true, AdvancedFeatures: true},
	},
}

// PlanFor returns the catalog entry for a tier, falling back to starter for
// unknown or empty tiers.
func PlanFor(tier string) Plan {
	if p, ok := plans[tier]; ok {
		return p
	}
	return plans[TierStarter]
}

// LimitsFor returns the limits for a tier with the starter fallback.
func LimitsFor(tier string) Limits {
	return PlanFor(tier).Limits
}

// DisplayName returns the human plan name for a tier.
func DisplayName(tier string) string {
	return PlanFor(tier).Name
}

// CanAccessTimeRange reports whether a tier may view an analytics range of
// the given number of days.
func CanAccessTimeRange(tier string, days int) bool {
	return days <= LimitsFor(tier).AnalyticsRange
}

// CanExportReports reports whether a tier may export PDF/CSV reports.
func CanExportReports(tier string) bool {
	return LimitsFor(tier).ExportEnabled
}

// MaxTechnicians returns the technician cap for a tier, or
// UnlimitedTechnicians.
func MaxTechnicians(tier string) int {
	return LimitsFor(tier).MaxTechnicians
}

// TimeRange is a selectable analytics window.
type TimeRange struct {
	Label string `json:"label"`
	Days  int    `json:"days"`
}

// AvailableTimeRanges lists the analytics windows a tier may select.
func AvailableTimeRanges(tier string) []TimeRange {
	ranges := []TimeRange{
		{Label: "7 Days", Days: 7},
		{Label: "30 Days", Days: 30},
	}
	for _, r := range []TimeRange{
		{Label: "3 Months", Days: 90},
		{Label: "6 Months", Days: 180},
		{Label: "1 Year", Days: 365},
	} {
		if CanAccessTimeRange(tier, r.Days) {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

// ValidationResult reports whether a technician count fits a plan.
type ValidationResult struct {
	Valid      bool
	Error      string
	MaxAllowed int
	PlanName   string
}

// ValidateTechnicianCount checks a total technician count against a tier's
// cap and, when over, names the plan that would fit.
func ValidateTechnicianCount(tier string, count int) ValidationResult {
	plan := PlanFor(tier)
	max := plan.Limits.MaxTechnicians

	if max == UnlimitedTechnicians {
		return ValidationResult{Valid: true, MaxAllowed: max, PlanName: plan.Name}
	}

	if count > max {
		msg := fmt.Sprintf("The %s Plan allows up to %d technician%s.", plan.Name, max, plural(max))
		if suggested := SuggestedPlan(count); suggested != nil {
			msg += fmt.Sprintf(" Please reduce your technician count or upgrade to the %s Plan.", suggested.Name)
		} else {
			msg += " Please reduce your technician count."
		}
		return ValidationResult{Error: msg, MaxAllowed: max, PlanName: plan.Name}
	}

	return ValidationResult{Valid: true, MaxAllowed: max, PlanName: plan.Name}
}

// CanAddTechnicians validates adding toAdd technicians on top of the current
// count.
func CanAddTechnicians(tier string, current, toAdd int) ValidationResult {
	return ValidateTechnicianCount(tier, current+toAdd)
}

// SuggestedPlan returns the cheapest plan that fits the technician count, or
// nil when the count already fits starter.
func SuggestedPlan(count int) *Plan {
	if count <= plans[TierStarter].Limits.MaxTechnicians {
		return nil
	}
	if count <= plans[TierGrowth].Limits.MaxTechnicians {
		p := plans[TierGrowth]
		return &p
	}
	p := plans[TierPro]
	return &p
}
