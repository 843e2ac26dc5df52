// Package stampduty computes the transfer tax due on a property price.
//
// Two policies are provided. Tiered applies marginal rates over consecutive
// price bands and is continuous at every band boundary. Flat applies a single
// percentage of the price. A calculation picks exactly one policy.
package stampduty

import (
	"fmt"
	"math"

	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/mathutil"
)

// Policy computes the stamp duty for a price.
type Policy interface {
	StampDuty(price float64) float64
	Name() string
}

// Tier is one marginal band of a tiered schedule. The band covers prices from
// the previous tier's UpTo (exclusive) to UpTo (inclusive). The last tier of a
// schedule should use math.Inf(1).
type Tier struct {
	UpTo        float64
	RatePercent float64
}

// defaultTiers is the standard schedule: 1% up to 100,000, 2% up to 500,000,
// 3% up to 1,000,000 and 4% beyond.
var defaultTiers = []Tier{
	{UpTo: 100000, RatePercent: 1},
	{UpTo: 500000, RatePercent: 2},
	{UpTo: 1000000, RatePercent: 3},
	{UpTo: math.Inf(1), RatePercent: 4},
}

// Tiered applies marginal rates over ascending price bands.
type Tiered struct {
	Tiers []Tier
}

// NewTiered validates tiers and returns a Tiered policy. Bounds must be
// strictly ascending and rates non-negative.
func NewTiered(tiers []Tier) (Tiered, error) {
	if len(tiers) == 0 {
		return Tiered{}, fmt.Errorf("stamp duty schedule must have at least one tier")
	}
	lower := 0.0
	for i, tier := range tiers {
		if tier.UpTo <= lower {
			return Tiered{}, fmt.Errorf("tier %d upper bound %.2f must exceed %.2f", i, tier.UpTo, lower)
		}
		if tier.RatePercent < 0 || math.IsNaN(tier.RatePercent) {
			return Tiered{}, fmt.Errorf("tier %d rate must not be negative", i)
		}
		lower = tier.UpTo
	}
	return Tiered{Tiers: append([]Tier(nil), tiers...)}, nil
}

// StampDuty sums the marginal duty of every band below price.
func (t Tiered) StampDuty(price float64) float64 {
	if price <= 0 {
		return 0
	}

	duty := 0.0
	lower := 0.0
	for _, tier := range t.Tiers {
		if price <= lower {
			break
		}
		taxable := math.Min(price, tier.UpTo) - lower
		duty += mathutil.ApplyPercentage(taxable, tier.RatePercent)
		lower = tier.UpTo
	}
	return duty
}

// Name implements Policy.
func (Tiered) Name() string {
	return constants.StampDutyPolicyTiered
}

// Flat charges a single percentage of the price.
type Flat struct {
	RatePercent float64
}

// StampDuty implements Policy.
func (f Flat) StampDuty(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return mathutil.ApplyPercentage(price, f.RatePercent)
}

// Name implements Policy.
func (Flat) Name() string {
	return constants.StampDutyPolicyFlat
}

// DefaultTiers returns a copy of the standard schedule.
func DefaultTiers() []Tier {
	return append([]Tier(nil), defaultTiers...)
}

// Default returns the tiered policy over the standard schedule.
func Default() Policy {
	return Tiered{Tiers: DefaultTiers()}
}

// CalculateStampDuty applies the default tiered schedule to price.
func CalculateStampDuty(price float64) float64 {
	return Default().StampDuty(price)
}

// ByName resolves a policy name. flatRatePercent is only used by the flat
// policy; a non-positive value selects DefaultFlatStampDutyPercent.
func ByName(name string, flatRatePercent float64) (Policy, error) {
	switch name {
	case "", constants.StampDutyPolicyTiered:
		return Default(), nil
	case constants.StampDutyPolicyFlat:
		if flatRatePercent <= 0 {
			flatRatePercent = constants.DefaultFlatStampDutyPercent
		}
		if !mathutil.IsPercent(flatRatePercent) {
			return nil, fmt.Errorf("flat stamp duty rate %.4f must be within [0, 100]", flatRatePercent)
		}
		return Flat{RatePercent: flatRatePercent}, nil
	default:
		return nil, fmt.Errorf("expected stamp duty policy of %s or %s, got %s",
			constants.StampDutyPolicyTiered, constants.StampDutyPolicyFlat, name)
	}
}
