// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"regexp"

	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/labels"
	"github.com/iwvelando/property-pnl/pkg/stampduty"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateLoanBasis checks the loan basis option.
func ValidateLoanBasis(basis string) error {
	if basis != constants.LoanBasisListed && basis != constants.LoanBasisNetNet {
		return fmt.Errorf("expected loan basis of %s or %s, got %s",
			constants.LoanBasisListed, constants.LoanBasisNetNet, basis)
	}
	return nil
}

// ValidateStampDutyPolicy checks the policy name and flat rate.
func ValidateStampDutyPolicy(policy string, flatRatePercent float64) error {
	_, err := stampduty.ByName(policy, flatRatePercent)
	return err
}

// ValidateLanguage checks that a label set exists for lang.
func ValidateLanguage(lang string) error {
	if !labels.Supported(lang) {
		return fmt.Errorf("expected language of %s or %s, got %s",
			constants.LanguageEnglish, constants.LanguageChinese, lang)
	}
	return nil
}

// ValidateCurrencyCode checks for an upper case ISO 4217 style code.
func ValidateCurrencyCode(code string) error {
	if !currencyCodePattern.MatchString(code) {
		return fmt.Errorf("expected a three letter currency code, got %q", code)
	}
	return nil
}
