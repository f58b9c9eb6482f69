/*
Package commission is the plot-sale commission engine.

PURPOSE:
  Takes a plot sale (area, prices, advances, agreement share) plus a roster
  of named people per management tier and derives every money figure the
  back office needs: sale totals, per-role commission, and the split of
  each commission between the agreement stage and the registration stage.

KEY CONCEPTS IN THIS FILE (types.go):
  - Role:       A commission tier (CGM, SrGM, GM, DGM, AGM)
  - RoleEntry:  One named person and their per-sq-yard rate within a tier
  - Breakdown:  Ordered entries per multi-occupant tier
  - SaleInput:  Everything the calculator reads
  - Result:     Everything the calculator derives

ROLES:
  CGM is single-occupant: one name, one rate.
  SrGM, GM, DGM and AGM are multi-occupant: 0..N entries, each with its own
  rate. The tier's rate is the sum of its entries' rates.

PRECISION:
  All money and rates are decimal.Decimal. The engine never rounds;
  rounding belongs to presentation (see numfmt).

SEE ALSO:
  - calculator.go: The formulas
  - breakdown.go:  Serialized entry lists stored with each record
  - store.go:      Persistence contract
*/
package commission

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ROLES
// =============================================================================

type Role string

const (
	RoleCGM  Role = "cgm"
	RoleSrGM Role = "srgm"
	RoleGM   Role = "gm"
	RoleDGM  Role = "dgm"
	RoleAGM  Role = "agm"
)

// MultiRoles lists the multi-occupant roles in display and storage order.
var MultiRoles = []Role{RoleSrGM, RoleGM, RoleDGM, RoleAGM}

// AllRoles is CGM followed by MultiRoles.
var AllRoles = []Role{RoleCGM, RoleSrGM, RoleGM, RoleDGM, RoleAGM}

// IsMulti reports whether r can hold more than one person.
func (r Role) IsMulti() bool {
	switch r {
	case RoleSrGM, RoleGM, RoleDGM, RoleAGM:
		return true
	}
	return false
}

// Label is the heading used in statements.
func (r Role) Label() string {
	switch r {
	case RoleCGM:
		return "CGM"
	case RoleSrGM:
		return "Sr. GM"
	case RoleGM:
		return "GM"
	case RoleDGM:
		return "DGM"
	case RoleAGM:
		return "AGM"
	}
	return string(r)
}

// =============================================================================
// ROLE ENTRY
// =============================================================================

// RoleEntry is one person within a role and their per-sq-yard rate.
// A zero rate with a name is a legitimate placeholder.
type RoleEntry struct {
	Name string
	Rate decimal.Decimal
}

// IsTrivial reports whether the entry carries neither a name nor a positive
// rate. Trivial entries are never stored or emitted.
func (e RoleEntry) IsTrivial() bool {
	return e.Name == "" && !e.Rate.IsPositive()
}

// Breakdown holds the ordered entries of each multi-occupant role.
type Breakdown map[Role][]RoleEntry

// RateTotal sums the rates of a role's non-trivial entries.
func (b Breakdown) RateTotal(r Role) decimal.Decimal {
	total := decimal.Zero
	for _, e := range b[r] {
		if e.IsTrivial() {
			continue
		}
		total = total.Add(e.Rate)
	}
	return total
}

// Clean returns a copy with names trimmed, trivial entries removed and only
// multi roles kept. Trimming comes first, so a whitespace-only name with no
// rate is trivial.
func (b Breakdown) Clean() Breakdown {
	out := make(Breakdown, len(MultiRoles))
	for _, r := range MultiRoles {
		var kept []RoleEntry
		for _, e := range b[r] {
			e.Name = strings.TrimSpace(e.Name)
			if !e.IsTrivial() {
				kept = append(kept, e)
			}
		}
		out[r] = kept
	}
	return out
}

// =============================================================================
// SALE INPUT
// =============================================================================

// SaleInput is the raw sale as captured by the back office. Prices and
// commission rates are per square yard. AgreementPercentage is a fraction
// (0.25 for 25%).
type SaleInput struct {
	PlotNo      string
	ProjectName string

	SqYards               decimal.Decimal
	OriginalPrice         decimal.Decimal
	NegotiatedPrice       decimal.Decimal
	AdvanceReceived       decimal.Decimal
	AgreementPercentage   decimal.Decimal
	AmountPaidAtAgreement decimal.Decimal
	AMCCharges            decimal.Decimal

	// MediatorDeduction of zero means "not recorded"; see MediatorPayout.
	MediatorDeduction decimal.Decimal
	BrokerCommission  decimal.Decimal

	CGM     RoleEntry
	Entries Breakdown
}

// RoleRate returns the per-sq-yard rate of a role. For multi roles this is
// the sum of the entry rates.
func (in SaleInput) RoleRate(r Role) decimal.Decimal {
	if r == RoleCGM {
		return in.CGM.Rate
	}
	return in.Entries.RateTotal(r)
}

// =============================================================================
// RESULT
// =============================================================================

// Split is a commission amount and its agreement/registration division.
// AtRegistration is always Total minus AtAgreement.
type Split struct {
	Total          decimal.Decimal
	AtAgreement    decimal.Decimal
	AtRegistration decimal.Decimal
}

// EntrySplit is the split attributed to one person.
type EntrySplit struct {
	RoleEntry
	Split
}

// RoleResult is the aggregate for a role plus its per-person splits.
type RoleResult struct {
	Rate decimal.Decimal
	Split
	Entries []EntrySplit
}

// Result holds every figure derived from a SaleInput.
type Result struct {
	TotalAmount           decimal.Decimal
	WValue                decimal.Decimal
	BValue                decimal.Decimal
	BalanceAmount         decimal.Decimal
	ActualAgreementAmount decimal.Decimal
	AgreementBalance      decimal.Decimal

	Roles map[Role]RoleResult
}

// Role returns the result for r, zero-valued if absent.
func (res Result) Role(r Role) RoleResult {
	return res.Roles[r]
}
