package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount as US dollars with thousands separators,
// dropping the cents when they are zero: 1530 -> "$1,530", 137.7 -> "$137.70".
func Format(d decimal.Decimal) string {
	neg := d.IsNegative()
	d = d.Abs()
	s := d.StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
