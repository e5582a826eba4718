package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes formatted prices.
const CurrencySymbol = "₹"

// FormatPrice renders an amount in minor units as major units with two decimals and
// thousands separators, e.g. 8500000 -> "₹85,000.00".
func FormatPrice(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	s := decimal.New(minor, -2).StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + CurrencySymbol + b.String() + "." + frac
}
