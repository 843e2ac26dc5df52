// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/property-pnl/internal/valuation"
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/mathutil"
)

// SampleInput returns the default purchase used throughout the tests: an
// 800,000 listing with 10% and 5% discounts, 70% financing at 5% over 25
// years, rented at 150 a night with 60% utilisation.
func SampleInput() valuation.PurchaseInput {
	return valuation.PurchaseInput{
		ListedPrice:               800000,
		DiscountPercent1:          10,
		DiscountPercent2:          5,
		FixedDiscount:             0,
		DepositPaid:               10000,
		LoanRatioPercent:          70,
		AnnualInterestRatePercent: 5,
		LoanTermYears:             25,
		UpfrontCosts: valuation.UpfrontCosts{
			ConsentFee:     1000,
			LegalFee:       3000,
			MinBankBalance: 5000,
			CashCushion:    10000,
			RenovationCost: 15000,
		},
		Rental: valuation.Rental{
			NightlyRate:          150,
			UtilisationPercent:   60,
			ManagementFeeMonthly: 500,
		},
		ForeignCurrencyRate: constants.DefaultFallbackRate,
	}
}

// AssertClose fails the test when got and want differ by more than tolerance.
func AssertClose(t *testing.T, field string, got, want, tolerance float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, tolerance) {
		t.Errorf("%s = %.4f, expected %.4f (tolerance %v)", field, got, want, tolerance)
	}
}
