package validation

import (
	"fmt"

	"github.com/iwvelando/property-pnl/internal/valuation"
	"github.com/iwvelando/property-pnl/pkg/constants"
)

// InputValidator reports inputs that are valid but probably not intended.
type InputValidator struct {
	Input     valuation.PurchaseInput
	LoanBasis string
}

// ValidateAll returns warnings for the configured purchase. Hard errors are
// left to valuation.PurchaseInput.Validate.
func (iv *InputValidator) ValidateAll() []string {
	var warnings []string
	in := iv.Input

	if in.DiscountPercent1 == 100 || in.DiscountPercent2 == 100 {
		warnings = append(warnings, "a 100% discount reduces the net price to zero")
	}

	if in.FixedDiscount < 0 {
		warnings = append(warnings, fmt.Sprintf("fixed discount %.2f is negative and will be treated as a surcharge",
			in.FixedDiscount))
	}

	if in.LoanRatioPercent == 0 && in.AnnualInterestRatePercent > 0 {
		warnings = append(warnings, "loan ratio is 0% so the interest rate has no effect")
	}

	if in.LoanRatioPercent > 90 {
		warnings = append(warnings, fmt.Sprintf("loan ratio %.2f%% exceeds 90%%; the cash deposit may be negative",
			in.LoanRatioPercent))
	}

	if in.Rental.NightlyRate > 0 && in.Rental.UtilisationPercent == 0 {
		warnings = append(warnings, "utilisation is 0% so no rental income will be earned")
	}

	if in.PropertySizeUnits > 0 && in.ServiceFeeRatePerUnit == 0 {
		warnings = append(warnings, "property size is set without a service fee rate")
	}

	if in.LoanTermYears > 35 {
		warnings = append(warnings, fmt.Sprintf("loan term of %d years is unusually long", in.LoanTermYears))
	}

	if iv.LoanBasis == constants.LoanBasisListed && in.DiscountPercent1+in.DiscountPercent2+in.FixedDiscount > 0 {
		warnings = append(warnings, "loan is sized from the listed price; discounts do not reduce the loan amount")
	}

	return warnings
}
