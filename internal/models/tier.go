package models

import "time"

// Tier is a named subscription package. The set is closed; anything else is
// rejected with an INVALID_TIER error at the API boundary.
type Tier string

const (
	// TierStandard is the free default assigned at registration.
	TierStandard Tier = "standard"
	// TierBasic grants a small unlock allotment.
	TierBasic Tier = "basic"
	// TierGold grants a larger unlock allotment with a longer validity.
	TierGold Tier = "gold"
	// TierDiamond grants unlimited unlocks for a year.
	TierDiamond Tier = "diamond"
)

// Entitlement is one row of the tier table: the credit allotment and package
// validity granted on approval. Credits and duration are independent values,
// not derived from each other.
type Entitlement struct {
	Credits   int
	Duration  time.Duration
	Unlimited bool
}

// tierTable is the single declarative source for package entitlements.
var tierTable = map[Tier]Entitlement{
	TierStandard: {Credits: 0, Duration: 30 * 24 * time.Hour},
	TierBasic:    {Credits: 3, Duration: 30 * 24 * time.Hour},
	TierGold:     {Credits: 10, Duration: 90 * 24 * time.Hour},
	TierDiamond:  {Credits: 0, Duration: 365 * 24 * time.Hour, Unlimited: true},
}

// ParseTier validates a client-supplied tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierTable[t]; !ok {
		return "", NewInvalidTierError(s)
	}
	return t, nil
}

// Entitlements returns the table entry for a tier. Unknown tiers fall back to
// the standard entry so a corrupted row never grants access.
func (t Tier) Entitlements() Entitlement {
	if e, ok := tierTable[t]; ok {
		return e
	}
	return tierTable[TierStandard]
}

// Unlimited reports whether the tier bypasses credit accounting entirely.
func (t Tier) Unlimited() bool {
	return t.Entitlements().Unlimited
}

// Tiers returns all recognized tiers, for validation messages and seeding.
func Tiers() []Tier {
	return []Tier{TierStandard, TierBasic, TierGold, TierDiamond}
}
