// Package plan defines subscription tiers and their monthly character budgets.
// Tenants and individual users subscribe independently; the relay pipeline
// combines the two when computing a user's effective limit.
package plan

import (
	"errors"
	"fmt"
)

// Tier represents a subscription tier.
type Tier string

const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

var ErrUnknownTier = errors.New("unknown tier")

// monthlyCharacterLimits maps each tier to its monthly translated-character budget.
var monthlyCharacterLimits = map[Tier]int64{
	TierFree:       25_000,
	TierBasic:      100_000,
	TierPro:        500_000,
	TierEnterprise: 2_000_000,
}

// ParseTier validates and returns a Tier from its string form.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := monthlyCharacterLimits[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// MonthlyCharacterLimit returns the tier's monthly character budget.
// Unknown tiers fall back to the free budget rather than unlimited.
func (t Tier) MonthlyCharacterLimit() int64 {
	if limit, ok := monthlyCharacterLimits[t]; ok {
		return limit
	}
	return monthlyCharacterLimits[TierFree]
}

func (t Tier) String() string {
	return string(t)
}

// EffectiveUserLimit returns the higher of the personal and tenant tier
// budgets. A personally subscribed user is never throttled below their own
// plan inside a free tenant, and a free user inherits the tenant's plan.
func EffectiveUserLimit(personal, tenant Tier) int64 {
	p := personal.MonthlyCharacterLimit()
	t := tenant.MonthlyCharacterLimit()
	if p > t {
		return p
	}
	return t
}
