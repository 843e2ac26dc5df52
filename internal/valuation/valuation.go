// Package valuation turns a property purchase and its rental operation into a
// purchase, loan and cash flow summary.
//
// Calculate is a pure function of its arguments. It reads no global state and
// performs no I/O, so it is safe to call from any number of goroutines.
package valuation

import (
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/loans"
	"github.com/iwvelando/property-pnl/pkg/mathutil"
	"github.com/iwvelando/property-pnl/pkg/stampduty"
)

// Result is the full summary for one PurchaseInput.
type Result struct {
	NetPrice            float64 `json:"netPrice"`
	NetNetPrice         float64 `json:"netNetPrice"`
	BasisPrice          float64 `json:"basisPrice"`
	MaxLoanAmount       float64 `json:"maxLoanAmount"`
	CashDeposit         float64 `json:"cashDeposit"`
	MonthlyRepayment    float64 `json:"monthlyRepayment"`
	TotalRepayment      float64 `json:"totalRepayment"`
	TotalInterest       float64 `json:"totalInterest"`
	RecurringFee        float64 `json:"recurringFee"`
	StampDuty           float64 `json:"stampDuty"`
	StampDutyOverridden bool    `json:"stampDutyOverridden"`
	StampDutyPolicy     string  `json:"stampDutyPolicy"`
	LoanBasis           string  `json:"loanBasis"`
	TotalCashRequired   float64 `json:"totalCashRequired"`
	GrossMonthlyRent    float64 `json:"grossMonthlyRent"`
	NetMonthlyRent      float64 `json:"netMonthlyRent"`
	MonthlyProfit       float64 `json:"monthlyProfit"`
	ForeignCurrencyRate float64 `json:"foreignCurrencyRate"`
	Foreign             Amounts `json:"foreign"`
}

// Amounts holds every money field of a Result expressed in another currency.
type Amounts struct {
	NetPrice          float64 `json:"netPrice"`
	NetNetPrice       float64 `json:"netNetPrice"`
	MaxLoanAmount     float64 `json:"maxLoanAmount"`
	CashDeposit       float64 `json:"cashDeposit"`
	MonthlyRepayment  float64 `json:"monthlyRepayment"`
	TotalRepayment    float64 `json:"totalRepayment"`
	TotalInterest     float64 `json:"totalInterest"`
	RecurringFee      float64 `json:"recurringFee"`
	StampDuty         float64 `json:"stampDuty"`
	TotalCashRequired float64 `json:"totalCashRequired"`
	GrossMonthlyRent  float64 `json:"grossMonthlyRent"`
	NetMonthlyRent    float64 `json:"netMonthlyRent"`
	MonthlyProfit     float64 `json:"monthlyProfit"`
}

// Calculate validates input and opts and produces the complete Result. On
// error the returned Result is the zero value.
func Calculate(input PurchaseInput, opts Options) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}

	policy := opts.StampDutyPolicy
	if policy == nil {
		policy = stampduty.Default()
	}

	var r Result
	r.LoanBasis = opts.LoanBasis
	r.ForeignCurrencyRate = input.ForeignCurrencyRate

	// Percentage discounts compound; they are never summed.
	r.NetPrice = mathutil.ApplySequentialDiscounts(input.ListedPrice, input.DiscountPercent1, input.DiscountPercent2)
	r.NetNetPrice = r.NetPrice - input.FixedDiscount

	r.BasisPrice = r.NetNetPrice
	if opts.LoanBasis == constants.LoanBasisListed {
		r.BasisPrice = input.ListedPrice
	}

	r.MaxLoanAmount = loans.MaxLoanAmount(r.BasisPrice, input.LoanRatioPercent)
	// Negative when the loan and deposit exceed the price.
	r.CashDeposit = r.NetNetPrice - r.MaxLoanAmount - input.DepositPaid
	r.MonthlyRepayment = loans.CalculateMonthlyPayment(r.MaxLoanAmount, input.AnnualInterestRatePercent, input.LoanTermYears)
	r.TotalRepayment = loans.TotalRepayment(r.MaxLoanAmount, input.AnnualInterestRatePercent, input.LoanTermYears)
	r.TotalInterest = loans.TotalInterest(r.MaxLoanAmount, input.AnnualInterestRatePercent, input.LoanTermYears)

	if input.PropertySizeUnits > 0 {
		r.RecurringFee = input.PropertySizeUnits * input.ServiceFeeRatePerUnit
	}

	if input.UpfrontCosts.StampDuty > 0 {
		r.StampDuty = input.UpfrontCosts.StampDuty
		r.StampDutyOverridden = true
		r.StampDutyPolicy = "override"
	} else {
		r.StampDuty = policy.StampDuty(r.BasisPrice)
		r.StampDutyPolicy = policy.Name()
	}

	costs := input.UpfrontCosts
	r.TotalCashRequired = r.CashDeposit + r.StampDuty + costs.ConsentFee + costs.LegalFee +
		costs.MinBankBalance + costs.CashCushion + costs.RenovationCost

	r.GrossMonthlyRent = input.Rental.NightlyRate * (input.Rental.UtilisationPercent / constants.PercentageMultiplier) * constants.DaysPerMonth
	r.NetMonthlyRent = r.GrossMonthlyRent - input.Rental.ManagementFeeMonthly - r.RecurringFee
	r.MonthlyProfit = r.NetMonthlyRent - r.MonthlyRepayment

	r.Foreign = r.project(input.ForeignCurrencyRate)
	if err := r.checkFinite(); err != nil {
		return Result{}, err
	}
	return r, nil
}

// checkFinite rejects results whose magnitude exceeds float64, which only
// inputs far outside any real purchase can produce.
func (r Result) checkFinite() error {
	f := r.Foreign
	fields := []struct {
		name  string
		value float64
	}{
		{"netPrice", r.NetPrice},
		{"netNetPrice", r.NetNetPrice},
		{"basisPrice", r.BasisPrice},
		{"maxLoanAmount", r.MaxLoanAmount},
		{"cashDeposit", r.CashDeposit},
		{"monthlyRepayment", r.MonthlyRepayment},
		{"totalRepayment", r.TotalRepayment},
		{"totalInterest", r.TotalInterest},
		{"recurringFee", r.RecurringFee},
		{"stampDuty", r.StampDuty},
		{"totalCashRequired", r.TotalCashRequired},
		{"grossMonthlyRent", r.GrossMonthlyRent},
		{"netMonthlyRent", r.NetMonthlyRent},
		{"monthlyProfit", r.MonthlyProfit},
		{"foreign.netPrice", f.NetPrice},
		{"foreign.netNetPrice", f.NetNetPrice},
		{"foreign.maxLoanAmount", f.MaxLoanAmount},
		{"foreign.cashDeposit", f.CashDeposit},
		{"foreign.monthlyRepayment", f.MonthlyRepayment},
		{"foreign.totalRepayment", f.TotalRepayment},
		{"foreign.totalInterest", f.TotalInterest},
		{"foreign.recurringFee", f.RecurringFee},
		{"foreign.stampDuty", f.StampDuty},
		{"foreign.totalCashRequired", f.TotalCashRequired},
		{"foreign.grossMonthlyRent", f.GrossMonthlyRent},
		{"foreign.netMonthlyRent", f.NetMonthlyRent},
		{"foreign.monthlyProfit", f.MonthlyProfit},
	}
	for _, field := range fields {
		if !mathutil.IsFinite(field.value) {
			return NewInvalidInputError(field.name, field.value, "result is out of range for the given input")
		}
	}
	return nil
}

func (r Result) project(rate float64) Amounts {
	convert := func(v float64) float64 { return v / rate }
	return Amounts{
		NetPrice:          convert(r.NetPrice),
		NetNetPrice:       convert(r.NetNetPrice),
		MaxLoanAmount:     convert(r.MaxLoanAmount),
		CashDeposit:       convert(r.CashDeposit),
		MonthlyRepayment:  convert(r.MonthlyRepayment),
		TotalRepayment:    convert(r.TotalRepayment),
		TotalInterest:     convert(r.TotalInterest),
		RecurringFee:      convert(r.RecurringFee),
		StampDuty:         convert(r.StampDuty),
		TotalCashRequired: convert(r.TotalCashRequired),
		GrossMonthlyRent:  convert(r.GrossMonthlyRent),
		NetMonthlyRent:    convert(r.NetMonthlyRent),
		MonthlyProfit:     convert(r.MonthlyProfit),
	}
}
