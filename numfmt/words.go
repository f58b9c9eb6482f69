package numfmt

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ones = []string{
		"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tens = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
	}
)

// AmountInWords spells the whole-rupee part of d using the Indian scale
// (crore, lakh, thousand, hundred), title cased and suffixed with "Only".
// Groups are comma separated, compound tens are hyphenated and the last
// part below a hundred is joined with "and":
//
//	13331250 -> "One Crore, Thirty-Three Lakh, Thirty-One Thousand, Two Hundred And Fifty Only"
//
// Paise are dropped.
func AmountInWords(d decimal.Decimal) string {
	n := d.IntPart()
	if n == 0 {
		return "Zero Only"
	}

	var words string
	if n < 0 {
		words = "minus " + spell(uint64(-n))
	} else {
		words = spell(uint64(n))
	}

	return cases.Title(language.English).String(words) + " Only"
}

func spell(n uint64) string {
	var groups []string

	if crore := n / 10000000; crore > 0 {
		groups = append(groups, spell(crore)+" crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		groups = append(groups, belowHundred(lakh)+" lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		groups = append(groups, belowHundred(thousand)+" thousand")
		n %= 1000
	}

	words := strings.Join(groups, ", ")
	if n == 0 {
		return words
	}
	rest := belowThousand(n)
	switch {
	case words == "":
		return rest
	case n < 100:
		return words + " and " + rest
	default:
		return words + ", " + rest
	}
}

func belowThousand(n uint64) string {
	hundred, rest := n/100, n%100
	switch {
	case hundred == 0:
		return belowHundred(rest)
	case rest == 0:
		return ones[hundred] + " hundred"
	default:
		return ones[hundred] + " hundred and " + belowHundred(rest)
	}
}

func belowHundred(n uint64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + "-" + ones[n%10]
}
