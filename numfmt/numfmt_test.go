package numfmt_test

import (
	"testing"

	"github.com/plotdesk/commission-engine/numfmt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIndianGrouping(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"crore", 13331250, "1,33,31,250"},
		{"three digits", 500, "500"},
		{"one lakh", 100000, "1,00,000"},
		{"four digits", 1234, "1,234"},
		{"zero", 0, "0"},
		{"ten crore", int64(1000000000), "1,00,00,00,000"},
		{"float rounds up", 99999.7, "1,00,000"},
		{"half to even", 2.5, "2"},
		{"negative", -1234567, "-12,34,567"},
		{"decimal", decimal.RequireFromString("460000.00"), "4,60,000"},
		{"string with separators", "9,00,000", "9,00,000"},
		{"garbage string", "n/a", "n/a"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numfmt.IndianGrouping(tt.in))
		})
	}
}

func TestIndianCurrency(t *testing.T) {
	assert.Equal(t, "₹9,00,000", numfmt.IndianCurrency(decimal.NewFromInt(900000)))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "Rs. 1,234,567.89", numfmt.Currency(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "Rs. 0.00", numfmt.Currency(decimal.Zero))
	assert.Equal(t, "Rs. 460,000.00", numfmt.Currency(decimal.NewFromInt(460000)))
	assert.Equal(t, "Rs. -5,000.50", numfmt.Currency(decimal.RequireFromString("-5000.5")))
	assert.Equal(t, "Rs. 999.00", numfmt.Currency(decimal.NewFromInt(999)))
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "Zero Only", numfmt.AmountInWords(decimal.Zero))
	assert.Equal(t, "One Lakh Only", numfmt.AmountInWords(decimal.NewFromInt(100000)))
	assert.Equal(t, "Nine Lakh Only", numfmt.AmountInWords(decimal.NewFromInt(900000)))
	assert.Equal(t, "Two Hundred And Fifty Only", numfmt.AmountInWords(decimal.RequireFromString("250.75")))
	assert.Equal(t,
		"One Crore, Thirty-Three Lakh, Thirty-One Thousand, Two Hundred And Fifty Only",
		numfmt.AmountInWords(decimal.NewFromInt(13331250)))
	assert.Equal(t, "Minus Five Thousand Only", numfmt.AmountInWords(decimal.NewFromInt(-5000)))
}

func TestAmountInWords_Joining(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{7, "Seven Only"},
		{45, "Forty-Five Only"},
		{100, "One Hundred Only"},
		{105, "One Hundred And Five Only"},
		{1050, "One Thousand And Fifty Only"},
		{1250, "One Thousand, Two Hundred And Fifty Only"},
		{100050, "One Lakh And Fifty Only"},
		{105000, "One Lakh, Five Thousand Only"},
		{10000000, "One Crore Only"},
		{1500000000, "One Hundred And Fifty Crore Only"},
		{2099900000, "Two Hundred And Nine Crore, Ninety-Nine Lakh Only"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, numfmt.AmountInWords(decimal.NewFromInt(tt.in)))
		})
	}
}
