package billing

// PriceMap resolves Stripe price IDs to plan tiers. It is built once at
// startup from configuration and injected where needed, so handlers never
// compare raw environment variables.
type PriceMap struct {
	byPrice map[string]string
	byTier  map[string]string
}

// NewPriceMap builds the two-way price-ID/tier mapping.
func NewPriceMap(starter, growth, pro string) *PriceMap {
	return &PriceMap{
		byPrice: map[string]string{
			starter: TierStarter,
			growth:  TierGrowth,
			pro:     TierPro,
		},
		byTier: map[string]string{
			TierStarter: starter,
			TierGrowth:  growth,
			TierPro:     pro,
		},
	}
}

// TierForPriceID maps a Stripe price ID to a plan tier. Unknown price IDs
// fall back to starter; the second return value reports whether the price
// was recognized.
func (m *PriceMap) TierForPriceID(priceID string) (string, bool) {
	if tier, ok := m.byPrice[priceID]; ok && priceID != "" {
		return tier, true
	}
	return TierStarter, false
}

// PriceIDForTier returns the configured Stripe price ID for a tier, with the
// starter fallback for unknown tiers.
func (m *PriceMap) PriceIDForTier(tier string) string {
	if id, ok := m.byTier[tier]; ok {
		return id
	}
	return m.byTier[TierStarter]
}
