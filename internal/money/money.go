// Package money formats decimal amounts for display. Formatting is a pure
// function of the value; stored amounts never carry symbols or separators.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols maps ISO 4217 codes to their display symbols. Unknown
// codes fall back to "CODE " as the prefix.
var currencySymbols = map[string]string{
	"GBP": "£",
	"USD": "$",
	"EUR": "€",
}

// Format renders an amount with a currency prefix, thousands separators and
// two fractional digits, e.g. Format(-1234.5, "GBP") == "-£1,234.50".
func Format(amount decimal.Decimal, currencyCode string) string {
	symbol, ok := currencySymbols[currencyCode]
	if !ok {
		symbol = currencyCode + " "
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	return sign + symbol + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
