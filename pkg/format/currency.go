// Package format renders amounts and dates for human-readable output.
package format

import (
	"math"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Percent renders a percentage with two decimals (e.g., "3.50%").
func Percent(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(constants.DecimalPlaces) + "%"
}

// MonthYear renders a date as "January 2006", or "N/A" for the zero time.
func MonthYear(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(constants.MonthYearLayout)
}

func formatPositiveCurrency(value float64) string {
	formatted := decimal.NewFromFloat(value).StringFixed(constants.DecimalPlaces)
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
