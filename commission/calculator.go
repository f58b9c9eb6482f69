/*
calculator.go - Commission formulas

PURPOSE:
  Compute maps a SaleInput to a Result. It is pure and total: any numeric
  input, including zero or negative values, yields a Result.

FORMULAS:
  total_amount            = sq_yards * negotiated_price + amc_charges * sq_yards
  w_value                 = sq_yards * 5500
  b_value                 = total_amount - w_value
  balance_amount          = total_amount - advance_received
  actual_agreement_amount = total_amount * agreement_percentage
  agreement_balance       = actual_agreement_amount - amount_paid_at_agreement - advance_received

  per role (and per entry, with the entry's own rate):
    total           = rate * sq_yards
    at_agreement    = total * agreement_percentage
    at_registration = total - at_agreement

REGISTRATION SHARE:
  at_registration is derived by subtraction, never as total * (1 - pct),
  so agreement + registration always equals total.

SEE ALSO:
  - types.go: SaleInput, Result
  - mediator.go: Broker payout, computed separately
*/
package commission

import "github.com/shopspring/decimal"

// WReferenceRate is the fixed per-sq-yard reference rate behind WValue.
var WReferenceRate = decimal.NewFromInt(5500)

// Compute derives all totals and role splits for a sale.
func Compute(in SaleInput) Result {
	sq := in.SqYards
	pct := in.AgreementPercentage

	total := sq.Mul(in.NegotiatedPrice).Add(in.AMCCharges.Mul(sq))
	w := sq.Mul(WReferenceRate)
	actualAgreement := total.Mul(pct)

	res := Result{
		TotalAmount:           total,
		WValue:                w,
		BValue:                total.Sub(w),
		BalanceAmount:         total.Sub(in.AdvanceReceived),
		ActualAgreementAmount: actualAgreement,
		AgreementBalance:      actualAgreement.Sub(in.AmountPaidAtAgreement).Sub(in.AdvanceReceived),
		Roles:                 make(map[Role]RoleResult, len(AllRoles)),
	}

	res.Roles[RoleCGM] = RoleResult{
		Rate:    in.CGM.Rate,
		Split:   SplitOf(in.CGM.Rate, sq, pct),
		Entries: entrySplits([]RoleEntry{in.CGM}, sq, pct),
	}

	for _, r := range MultiRoles {
		rate := in.Entries.RateTotal(r)
		res.Roles[r] = RoleResult{
			Rate:    rate,
			Split:   SplitOf(rate, sq, pct),
			Entries: entrySplits(in.Entries[r], sq, pct),
		}
	}

	return res
}

// SplitOf applies the commission formula to a single per-sq-yard rate.
func SplitOf(rate, sqYards, pct decimal.Decimal) Split {
	total := rate.Mul(sqYards)
	atAgreement := total.Mul(pct)
	return Split{
		Total:          total,
		AtAgreement:    atAgreement,
		AtRegistration: total.Sub(atAgreement),
	}
}

func entrySplits(entries []RoleEntry, sq, pct decimal.Decimal) []EntrySplit {
	var out []EntrySplit
	for _, e := range entries {
		if e.IsTrivial() {
			continue
		}
		out = append(out, EntrySplit{RoleEntry: e, Split: SplitOf(e.Rate, sq, pct)})
	}
	return out
}
