package commission

import "github.com/shopspring/decimal"

// Payout is the broker (mediator) settlement for a sale.
type Payout struct {
	Gross       decimal.Decimal
	Deduction   decimal.Decimal
	Net         decimal.Decimal
	AtAgreement decimal.Decimal

	// DeductionEstimated is true when no deduction was recorded and
	// EstimatedDeduction supplied it.
	DeductionEstimated bool
}

// MediatorPayout computes the broker payout. Gross is the broker rate times
// the plot area; the recorded deduction is used when non-zero.
func MediatorPayout(in SaleInput) Payout {
	gross := in.BrokerCommission.Mul(in.SqYards)

	deduction := in.MediatorDeduction
	estimated := false
	if deduction.IsZero() {
		deduction = EstimatedDeduction(in)
		estimated = true
	}

	net := gross.Sub(deduction)
	return Payout{
		Gross:              gross,
		Deduction:          deduction,
		Net:                net,
		AtAgreement:        net.Mul(in.AgreementPercentage),
		DeductionEstimated: estimated,
	}
}

// EstimatedDeduction guesses the mediator deduction of records that never
// stored one: the gap between the listed price and the negotiated price
// plus AMC, over the whole plot.
func EstimatedDeduction(in SaleInput) decimal.Decimal {
	return in.OriginalPrice.Sub(in.NegotiatedPrice).Sub(in.AMCCharges).Mul(in.SqYards)
}
