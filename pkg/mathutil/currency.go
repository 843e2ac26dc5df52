// Package mathutil provides the percentage arithmetic shared by the
// valuation packages.
package mathutil

import (
	"math"

	"github.com/iwvelando/property-pnl/pkg/constants"
)

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ApplyPercentage returns percentage percent of value.
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// ApplyDiscount reduces value by percentage percent.
func ApplyDiscount(value, percentage float64) float64 {
	return value * (1 - percentage/constants.PercentageMultiplier)
}

// ApplySequentialDiscounts applies each percentage to the result of the
// previous one. Discounts of 10 and 8 reduce a price by 17.2%, not 18%.
func ApplySequentialDiscounts(value float64, percentages ...float64) float64 {
	for _, percentage := range percentages {
		value = ApplyDiscount(value, percentage)
	}
	return value
}

// IsPercent reports whether val lies within [0, 100].
func IsPercent(val float64) bool {
	return val >= 0 && val <= constants.PercentageMultiplier
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
