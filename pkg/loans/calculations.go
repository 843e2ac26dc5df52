// Package loans provides loan sizing and repayment calculations.
package loans

import (
	"math"

	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/mathutil"
)

// MaxLoanAmount returns the amount financed for a given basis price and loan
// ratio expressed in percent.
func MaxLoanAmount(basisPrice, loanRatioPercent float64) float64 {
	return mathutil.ApplyPercentage(basisPrice, loanRatioPercent)
}

// TermMonths converts a loan term in years into the number of monthly payments.
func TermMonths(termYears int) int {
	return termYears * constants.MonthsPerYear
}

// MonthlyRate converts an annual interest rate in percent into the periodic
// monthly rate.
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. The payment approaches principal times the
// periodic rate as the term grows, so very long terms stay finite.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termYears int) float64 {
	termMonths := TermMonths(termYears)
	if termMonths <= 0 {
		return 0
	}

	periodicInterestRate := MonthlyRate(annualInterestRate)
	if periodicInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	// 1 - (1+r)^-n, evaluated without forming (1+r)^n.
	discount := -math.Expm1(-float64(termMonths) * math.Log1p(periodicInterestRate))
	if discount == 0 {
		return principal / float64(termMonths)
	}
	return principal * periodicInterestRate / discount
}

// TotalRepayment is the sum of every monthly payment over the term.
func TotalRepayment(principal, annualInterestRate float64, termYears int) float64 {
	return CalculateMonthlyPayment(principal, annualInterestRate, termYears) * float64(TermMonths(termYears))
}

// TotalInterest is the interest paid over the full term.
func TotalInterest(principal, annualInterestRate float64, termYears int) float64 {
	return TotalRepayment(principal, annualInterestRate, termYears) - principal
}
