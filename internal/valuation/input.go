package valuation

import (
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/mathutil"
	"github.com/iwvelando/property-pnl/pkg/stampduty"
)

// PurchaseInput holds everything known about one purchase. Money fields are in
// the home currency.
type PurchaseInput struct {
	ListedPrice               float64      `json:"listedPrice" yaml:"listedPrice" mapstructure:"listedPrice"`
	DiscountPercent1          float64      `json:"discountPercent1" yaml:"discountPercent1" mapstructure:"discountPercent1"`
	DiscountPercent2          float64      `json:"discountPercent2" yaml:"discountPercent2" mapstructure:"discountPercent2"`
	FixedDiscount             float64      `json:"fixedDiscount" yaml:"fixedDiscount" mapstructure:"fixedDiscount"`
	DepositPaid               float64      `json:"depositPaid" yaml:"depositPaid" mapstructure:"depositPaid"`
	LoanRatioPercent          float64      `json:"loanRatioPercent" yaml:"loanRatioPercent" mapstructure:"loanRatioPercent"`
	AnnualInterestRatePercent float64      `json:"annualInterestRatePercent" yaml:"annualInterestRatePercent" mapstructure:"annualInterestRatePercent"`
	LoanTermYears             int          `json:"loanTermYears" yaml:"loanTermYears" mapstructure:"loanTermYears"`
	PropertySizeUnits         float64      `json:"propertySizeUnits" yaml:"propertySizeUnits" mapstructure:"propertySizeUnits"`
	ServiceFeeRatePerUnit     float64      `json:"serviceFeeRatePerUnit" yaml:"serviceFeeRatePerUnit" mapstructure:"serviceFeeRatePerUnit"`
	UpfrontCosts              UpfrontCosts `json:"upfrontCosts" yaml:"upfrontCosts" mapstructure:"upfrontCosts"`
	Rental                    Rental       `json:"rental" yaml:"rental" mapstructure:"rental"`
	ForeignCurrencyRate       float64      `json:"foreignCurrencyRate" yaml:"foreignCurrencyRate" mapstructure:"foreignCurrencyRate"`
}

// UpfrontCosts are paid in cash at purchase. A positive StampDuty overrides
// the configured stamp duty policy.
type UpfrontCosts struct {
	StampDuty      float64 `json:"stampDuty" yaml:"stampDuty" mapstructure:"stampDuty"`
	ConsentFee     float64 `json:"consentFee" yaml:"consentFee" mapstructure:"consentFee"`
	LegalFee       float64 `json:"legalFee" yaml:"legalFee" mapstructure:"legalFee"`
	MinBankBalance float64 `json:"minBankBalance" yaml:"minBankBalance" mapstructure:"minBankBalance"`
	CashCushion    float64 `json:"cashCushion" yaml:"cashCushion" mapstructure:"cashCushion"`
	RenovationCost float64 `json:"renovationCost" yaml:"renovationCost" mapstructure:"renovationCost"`
}

// Rental describes short-stay rental operation.
type Rental struct {
	NightlyRate          float64 `json:"nightlyRate" yaml:"nightlyRate" mapstructure:"nightlyRate"`
	UtilisationPercent   float64 `json:"utilisationPercent" yaml:"utilisationPercent" mapstructure:"utilisationPercent"`
	ManagementFeeMonthly float64 `json:"managementFeeMonthly" yaml:"managementFeeMonthly" mapstructure:"managementFeeMonthly"`
}

// Options selects between the calculation variants seen in practice.
type Options struct {
	// LoanBasis is constants.LoanBasisListed or constants.LoanBasisNetNet. It
	// also selects the price the stamp duty policy is applied to.
	LoanBasis string

	// StampDutyPolicy is used unless UpfrontCosts.StampDuty is positive. Nil
	// selects the tiered schedule.
	StampDutyPolicy stampduty.Policy
}

// DefaultOptions sizes the loan from the net net price with tiered stamp duty.
func DefaultOptions() Options {
	return Options{
		LoanBasis:       constants.LoanBasisNetNet,
		StampDutyPolicy: stampduty.Default(),
	}
}

type fieldCheck struct {
	field string
	value float64
	check func(float64) bool
	msg   string
}

func positive(v float64) bool    { return v > 0 }
func nonNegative(v float64) bool { return v >= 0 }
func anyFinite(float64) bool     { return true }

// Validate checks every field against its domain and returns the first
// violation.
func (in PurchaseInput) Validate() error {
	checks := []fieldCheck{
		{"listedPrice", in.ListedPrice, positive, "must be greater than zero"},
		{"discountPercent1", in.DiscountPercent1, mathutil.IsPercent, "must be within [0, 100]"},
		{"discountPercent2", in.DiscountPercent2, mathutil.IsPercent, "must be within [0, 100]"},
		{"fixedDiscount", in.FixedDiscount, anyFinite, "must be a finite number"},
		{"depositPaid", in.DepositPaid, nonNegative, "must not be negative"},
		{"loanRatioPercent", in.LoanRatioPercent, mathutil.IsPercent, "must be within [0, 100]"},
		{"annualInterestRatePercent", in.AnnualInterestRatePercent, nonNegative, "must not be negative"},
		{"propertySizeUnits", in.PropertySizeUnits, nonNegative, "must not be negative"},
		{"serviceFeeRatePerUnit", in.ServiceFeeRatePerUnit, nonNegative, "must not be negative"},
		{"upfrontCosts.stampDuty", in.UpfrontCosts.StampDuty, nonNegative, "must not be negative"},
		{"upfrontCosts.consentFee", in.UpfrontCosts.ConsentFee, nonNegative, "must not be negative"},
		{"upfrontCosts.legalFee", in.UpfrontCosts.LegalFee, nonNegative, "must not be negative"},
		{"upfrontCosts.minBankBalance", in.UpfrontCosts.MinBankBalance, nonNegative, "must not be negative"},
		{"upfrontCosts.cashCushion", in.UpfrontCosts.CashCushion, nonNegative, "must not be negative"},
		{"upfrontCosts.renovationCost", in.UpfrontCosts.RenovationCost, nonNegative, "must not be negative"},
		{"rental.nightlyRate", in.Rental.NightlyRate, nonNegative, "must not be negative"},
		{"rental.utilisationPercent", in.Rental.UtilisationPercent, mathutil.IsPercent, "must be within [0, 100]"},
		{"rental.managementFeeMonthly", in.Rental.ManagementFeeMonthly, nonNegative, "must not be negative"},
		{"foreignCurrencyRate", in.ForeignCurrencyRate, positive, "must be greater than zero"},
	}

	for _, c := range checks {
		if !mathutil.IsFinite(c.value) {
			return NewInvalidInputError(c.field, c.value, "must be a finite number")
		}
		if !c.check(c.value) {
			return NewInvalidInputError(c.field, c.value, c.msg)
		}
	}

	if in.LoanTermYears <= 0 {
		return NewInvalidInputError("loanTermYears", in.LoanTermYears, "must be greater than zero")
	}

	return nil
}

// Validate checks the option values.
func (o Options) Validate() error {
	switch o.LoanBasis {
	case constants.LoanBasisListed, constants.LoanBasisNetNet:
		return nil
	default:
		return NewInvalidInputError("loanBasis", o.LoanBasis,
			"must be "+constants.LoanBasisListed+" or "+constants.LoanBasisNetNet)
	}
}
