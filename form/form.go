/*
Package form turns raw back-office form values into a commission.SaleInput.

PURPOSE:
  The calculator form posts every number as text ("9,00,000", "25", "")
  and each multi-occupant role as two parallel lists: names[] and rates[].
  This package is the only place that reads that shape. The engine itself
  only ever sees decimals and []commission.RoleEntry.

COERCION:
  A field that cannot be parsed counts as zero. A corrupt rate degrades that
  one contribution instead of failing the whole calculation.

PERCENTAGE:
  agreement_percentage arrives as a percent (25) and is divided by 100.

SEE ALSO:
  - api/dto.go: CommissionRequest embeds Sale
*/
package form

import (
	"strings"

	"github.com/plotdesk/commission-engine/commission"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Sale mirrors the commission calculator form.
type Sale struct {
	PlotNo      string `json:"plot_no" validate:"required,max=64"`
	ProjectName string `json:"project_name" validate:"max=128"`

	SqYards               string `json:"sq_yards"`
	OriginalPrice         string `json:"original_price"`
	NegotiatedPrice       string `json:"negotiated_price"`
	AdvanceReceived       string `json:"advance_received"`
	AgreementPercentage   string `json:"agreement_percentage"`
	AmountPaidAtAgreement string `json:"amount_paid_at_agreement"`
	AMCCharges            string `json:"amc_charges"`
	MediatorDeduction     string `json:"mediator_deduction"`
	BrokerCommission      string `json:"broker_commission"`

	CGMName string `json:"cgm_name" validate:"max=255"`
	CGMRate string `json:"cgm_rate"`

	SrGMNames []string `json:"srgm_name" validate:"max=50"`
	SrGMRates []string `json:"srgm_rate" validate:"max=50"`
	GMNames   []string `json:"gm_name" validate:"max=50"`
	GMRates   []string `json:"gm_rate" validate:"max=50"`
	DGMNames  []string `json:"dgm_name" validate:"max=50"`
	DGMRates  []string `json:"dgm_rate" validate:"max=50"`
	AGMNames  []string `json:"agm_name" validate:"max=50"`
	AGMRates  []string `json:"agm_rate" validate:"max=50"`
}

// Build converts the form into a SaleInput.
func (s Sale) Build() commission.SaleInput {
	return commission.SaleInput{
		PlotNo:      strings.TrimSpace(s.PlotNo),
		ProjectName: strings.TrimSpace(s.ProjectName),

		SqYards:               ParseAmount(s.SqYards),
		OriginalPrice:         ParseAmount(s.OriginalPrice),
		NegotiatedPrice:       ParseAmount(s.NegotiatedPrice),
		AdvanceReceived:       ParseAmount(s.AdvanceReceived),
		AgreementPercentage:   ParsePercent(s.AgreementPercentage),
		AmountPaidAtAgreement: ParseAmount(s.AmountPaidAtAgreement),
		AMCCharges:            ParseAmount(s.AMCCharges),
		MediatorDeduction:     ParseAmount(s.MediatorDeduction),
		BrokerCommission:      ParseAmount(s.BrokerCommission),

		CGM: commission.RoleEntry{
			Name: strings.TrimSpace(s.CGMName),
			Rate: ParseAmount(s.CGMRate),
		},
		Entries: commission.Breakdown{
			commission.RoleSrGM: ZipEntries(s.SrGMNames, s.SrGMRates),
			commission.RoleGM:   ZipEntries(s.GMNames, s.GMRates),
			commission.RoleDGM:  ZipEntries(s.DGMNames, s.DGMRates),
			commission.RoleAGM:  ZipEntries(s.AGMNames, s.AGMRates),
		},
	}
}

// ZipEntries pairs names[i] with rates[i] and drops pairs that carry neither
// a name nor a positive rate. Extra items in the longer list are ignored.
func ZipEntries(names, rates []string) []commission.RoleEntry {
	n := len(names)
	if len(rates) < n {
		n = len(rates)
	}

	var entries []commission.RoleEntry
	for i := 0; i < n; i++ {
		e := commission.RoleEntry{
			Name: strings.TrimSpace(names[i]),
			Rate: ParseAmount(rates[i]),
		}
		if !e.IsTrivial() {
			entries = append(entries, e)
		}
	}
	return entries
}

// ParseAmount reads a number that may contain thousands separators.
// Empty or unparseable input is zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParsePercent reads a percentage and returns it as a fraction.
func ParsePercent(s string) decimal.Decimal {
	return ParseAmount(s).Div(hundred)
}
