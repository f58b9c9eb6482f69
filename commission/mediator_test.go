package commission_test

import (
	"testing"

	"github.com/plotdesk/commission-engine/commission"
	"github.com/stretchr/testify/assert"
)

func TestMediatorPayout_RecordedDeduction(t *testing.T) {
	in := plotSale()
	in.MediatorDeduction = d("60000")

	p := commission.MediatorPayout(in)

	assertDecimal(t, "460000", p.Gross)
	assertDecimal(t, "60000", p.Deduction)
	assertDecimal(t, "400000", p.Net)
	assertDecimal(t, "100000", p.AtAgreement)
	assert.False(t, p.DeductionEstimated)
}

func TestMediatorPayout_EstimatedDeduction(t *testing.T) {
	// GIVEN: A record that never stored a deduction
	// WHEN: Computing the payout
	// THEN: (5000 - 4500 - 0) * 200 is deducted and flagged as estimated

	p := commission.MediatorPayout(plotSale())

	assertDecimal(t, "460000", p.Gross)
	assertDecimal(t, "100000", p.Deduction)
	assertDecimal(t, "360000", p.Net)
	assert.True(t, p.DeductionEstimated)
}

func TestEstimatedDeduction_IncludesAMC(t *testing.T) {
	in := plotSale()
	in.AMCCharges = d("100")

	assertDecimal(t, "80000", commission.EstimatedDeduction(in))
}
