package billing

import (
	"strings"
	"testing"
)

func TestPlanForFallsBackToStarter(t *testing.T) {
	for _, tier := range []string{"", "enterprise", "unknown"} {
		if got := PlanFor(tier).Tier; got != TierStarter {
			t.Errorf("PlanFor(%q).Tier = %q, want starter", tier, got)
		}
	}
	if got := PlanFor(TierPro).Name; got != "Pro" {
		t.Errorf("PlanFor(pro).Name = %q, want Pro", got)
	}
}

func TestCanAccessTimeRange(t *testing.T) {
	if !CanAccessTimeRange(TierStarter, 30) {
		t.Error("starter should access 30 days")
	}
	if CanAccessTimeRange(TierStarter, 90) {
		t.Error("starter should not access 90 days")
	}
	if !CanAccessTimeRange(TierGrowth, 365) {
		t.Error("growth should access 365 days")
	}
	// Unknown tier behaves as starter.
	if CanAccessTimeRange("", 90) {
		t.Error("empty tier should not access 90 days")
	}
}

func TestAvailableTimeRanges(t *testing.T) {
	starter := AvailableTimeRanges(TierStarter)
	if len(starter) != 2 {
		t.Fatalf("starter ranges = %d, want 2", len(starter))
	}
	growth := AvailableTimeRanges(TierGrowth)
	if len(growth) != 5 {
		t.Fatalf("growth ranges = %d, want 5", len(growth))
	}
	if growth[len(growth)-1].Days != 365 {
		t.Errorf("last growth range = %d days, want 365", growth[len(growth)-1].Days)
	}
}

func TestValidateTechnicianCount(t *testing.T) {
	res := ValidateTechnicianCount(TierStarter, 3)
	if !res.Valid {
		t.Fatalf("3 technicians should fit starter: %s", res.Error)
	}

	res = ValidateTechnicianCount(TierStarter, 4)
	if res.Valid {
		t.Fatal("4 technicians should not fit starter")
	}
	if !strings.Contains(res.Error, "Growth") {
		t.Errorf("error should suggest the Growth plan, got %q", res.Error)
	}

	res = ValidateTechnicianCount(TierGrowth, 11)
	if res.Valid {
		t.Fatal("11 technicians should not fit growth")
	}
	if !strings.Contains(res.Error, "Pro") {
		t.Errorf("error should suggest the Pro plan, got %q", res.Error)
	}

	res = ValidateTechnicianCount(TierPro, 500)
	if !res.Valid {
		t.Fatal("pro has no technician cap")
	}
}

func TestCanAddTechnicians(t *testing.T) {
	if res := CanAddTechnicians(TierStarter, 2, 1); !res.Valid {
		t.Fatalf("adding within limit should be valid: %s", res.Error)
	}
	if res := CanAddTechnicians(TierStarter, 3, 1); res.Valid {
		t.Fatal("adding past the cap should be rejected")
	}
}

func TestPriceMap(t *testing.T) {
	m := NewPriceMap("price_starter", "price_growth", "price_pro")

	tier, ok := m.TierForPriceID("price_growth")
	if !ok || tier != TierGrowth {
		t.Fatalf("TierForPriceID(price_growth) = %q, %v", tier, ok)
	}

	tier, ok = m.TierForPriceID("price_bogus")
	if ok {
		t.Fatal("unknown price ID should not be recognized")
	}
	if tier != TierStarter {
		t.Fatalf("unknown price ID should fall back to starter, got %q", tier)
	}

	if got := m.PriceIDForTier(TierPro); got != "price_pro" {
		t.Fatalf("PriceIDForTier(pro) = %q", got)
	}
	if got := m.PriceIDForTier("nonsense"); got != "price_starter" {
		t.Fatalf("unknown tier should map to starter price, got %q", got)
	}
}
