/*
Package numfmt formats money for display in statements and listings.

PURPOSE:
  Presentation helpers shared by the report builder and the API. The
  commission engine never rounds; everything here runs on the way out.

FORMATTERS:
  IndianGrouping:  13331250      -> "1,33,31,250"   (lakh/crore grouping, no decimals)
  IndianCurrency:  13331250      -> "₹1,33,31,250"
  Currency:        1234567.891   -> "Rs. 1,234,567.89"
  AmountInWords:   100000        -> "One Lakh Only"

GROUPING RULE:
  The last three digits form one group. Everything to the left is grouped
  in pairs. The leftmost group keeps whatever one or two digits remain.

SEE ALSO:
  - report/statement.go: Main consumer
*/
package numfmt

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// IndianGrouping renders v rounded to a whole number with Indian digit
// grouping. Ties round to even. Accepts integers, floats, decimals and
// numeric strings (thousands separators allowed). Anything that cannot be
// read as a number is returned in its plain string form.
func IndianGrouping(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}
	return groupIndian(d.RoundBank(0))
}

// IndianCurrency is IndianGrouping with a rupee sign.
func IndianCurrency(d decimal.Decimal) string {
	return "₹" + groupIndian(d.RoundBank(0))
}

func groupIndian(n decimal.Decimal) string {
	digits := n.Abs().String()
	sign := ""
	if n.IsNegative() {
		sign = "-"
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	last3 := digits[len(digits)-3:]
	rest := digits[:len(digits)-3]

	var parts []string
	for len(rest) > 2 {
		parts = append([]string{rest[len(rest)-2:]}, parts...)
		rest = rest[:len(rest)-2]
	}
	if rest != "" {
		parts = append([]string{rest}, parts...)
	}

	return sign + strings.Join(parts, ",") + "," + last3
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case uint:
		return decimal.NewFromUint64(uint64(n)), true
	case uint64:
		return decimal.NewFromUint64(n), true
	case float32:
		return fromFloat(float64(n))
	case float64:
		return fromFloat(n)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(n, ",", ""))
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

func fromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}
