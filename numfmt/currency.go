package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is prepended by Currency.
const CurrencyPrefix = "Rs. "

// Currency renders d with two decimal places and Western thousands grouping,
// e.g. "Rs. 1,234,567.89". Used in structured tables where lakh grouping is
// not wanted.
func Currency(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")
	return CurrencyPrefix + sign + groupThousands(intPart) + "." + frac
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
