// Package format renders amounts and percentages for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency returns an amount with thousands separators followed by the
// currency code (e.g., "-1,234.56 MYR").
func Currency(amount float64, code string) string {
	formatted := NumericCurrency(amount)
	if code == "" {
		return formatted
	}
	return formatted + " " + code
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	sign := ""
	if amount < 0 && math.Round(math.Abs(amount)*100) != 0 {
		sign = "-"
	}
	formatted := formatPositiveCurrency(math.Abs(amount))
	return sign + formatted
}

// Percent renders a percentage input as "value%" without trailing zeros
// (e.g., "10%", "4.35%").
func Percent(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
