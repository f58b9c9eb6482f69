/*
Package report builds commission statements: the tables a printed or
exported commission report shows, with every number already formatted.

PURPOSE:
  Rendering (PDF, DOCX, HTML) happens elsewhere. This package decides what
  goes in each table and how each figure reads, so that every renderer
  prints the same statement.

TABLES:
  Plot Information:        plot, project, area, list and negotiated price
  Financial Summary:       sale totals
  Mediator Commission:     broker gross, deduction, net, agreement share
  Commission Distribution: one row per person (CGM first, then Sr. GM,
                           GM, DGM, AGM in entry order)
  Role Totals:             per-role totals in Indian grouping

FORMATTING:
  Money in tables uses numfmt.Currency ("Rs. 1,234.00"). Role totals use
  numfmt.IndianCurrency. The sale total is also spelled out in words.

CAVEATS:
  When the per-person entries were reconstructed from names, or the
  mediator deduction was estimated, the statement carries a caveat line
  saying so.

SEE ALSO:
  - commission/service.go: Produces the View consumed here
  - numfmt: Number formatting
*/
package report

import (
	"time"

	"github.com/plotdesk/commission-engine/commission"
	"github.com/plotdesk/commission-engine/numfmt"
)

const (
	TitleStatement = "Commission Calculation Report"

	CaveatReconstructed = "Per-person shares were reconstructed by splitting each role's rate equally among its members; original individual rates were not recorded."
	CaveatDeduction     = "Mediator deduction was not recorded and has been estimated from the price difference."
)

// Table is a titled grid of formatted cells.
type Table struct {
	Title  string     `json:"title"`
	Header []string   `json:"header,omitempty"`
	Rows   [][]string `json:"rows"`
}

// Statement is a complete commission report.
type Statement struct {
	Title       string    `json:"title"`
	Reference   string    `json:"reference,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	Plot         Table `json:"plot"`
	Financial    Table `json:"financial"`
	Mediator     Table `json:"mediator"`
	Distribution Table `json:"distribution"`
	RoleTotals   Table `json:"role_totals"`

	TotalInWords string   `json:"total_in_words"`
	Approximate  bool     `json:"approximate"`
	Caveats      []string `json:"caveats,omitempty"`
}

// Build assembles the statement of a loaded commission.
func Build(v *commission.View, now time.Time) Statement {
	rec := v.Record
	st := build(rec.Input, rec.Result, v.Payout, now)
	st.Reference = rec.Reference

	if v.Resolution.Approximate() {
		st.Approximate = true
		st.Caveats = append([]string{CaveatReconstructed}, st.Caveats...)
	}
	return st
}

// BuildPreview assembles the statement of an unsaved calculation.
func BuildPreview(c commission.Calculation, now time.Time) Statement {
	return build(c.Input, c.Result, c.Payout, now)
}

func build(in commission.SaleInput, res commission.Result, p commission.Payout, now time.Time) Statement {
	st := Statement{
		Title:        TitleStatement,
		GeneratedAt:  now,
		Plot:         plotTable(in),
		Financial:    financialTable(in, res),
		Mediator:     mediatorTable(p),
		Distribution: distributionTable(res),
		RoleTotals:   roleTotalsTable(res),
		TotalInWords: numfmt.AmountInWords(res.TotalAmount),
	}
	if p.DeductionEstimated {
		st.Caveats = append(st.Caveats, CaveatDeduction)
	}
	return st
}

// =============================================================================
// TABLES
// =============================================================================

func plotTable(in commission.SaleInput) Table {
	return Table{
		Title: "Plot Information",
		Rows: [][]string{
			{"Plot No", in.PlotNo},
			{"Project", orDash(in.ProjectName)},
			{"Square Yards", in.SqYards.StringFixed(2)},
			{"Original Price/Sq.Yd", numfmt.Currency(in.OriginalPrice)},
			{"Negotiated Price/Sq.Yd", numfmt.Currency(in.NegotiatedPrice)},
		},
	}
}

func financialTable(in commission.SaleInput, res commission.Result) Table {
	return Table{
		Title:  "Financial Summary",
		Header: []string{"Description", "Amount"},
		Rows: [][]string{
			{"Total Amount", numfmt.Currency(res.TotalAmount)},
			{"W Value", numfmt.Currency(res.WValue)},
			{"B Value", numfmt.Currency(res.BValue)},
			{"Advance Received", numfmt.Currency(in.AdvanceReceived)},
			{"Balance Amount", numfmt.Currency(res.BalanceAmount)},
			{"Actual Agreement Amount", numfmt.Currency(res.ActualAgreementAmount)},
			{"Agreement Balance", numfmt.Currency(res.AgreementBalance)},
		},
	}
}

func mediatorTable(p commission.Payout) Table {
	deduction := "Mediator Deduction"
	if p.DeductionEstimated {
		deduction = "Mediator Deduction (estimated)"
	}
	return Table{
		Title:  "Mediator Commission",
		Header: []string{"Description", "Amount"},
		Rows: [][]string{
			{"Mediator Amount", numfmt.Currency(p.Gross)},
			{deduction, numfmt.Currency(p.Deduction)},
			{"Actual Payment to Mediator", numfmt.Currency(p.Net)},
			{"At Agreement", numfmt.Currency(p.AtAgreement)},
		},
	}
}

func distributionTable(res commission.Result) Table {
	t := Table{
		Title:  "Commission Distribution",
		Header: []string{"Name", "Role", "Total", "At Agreement", "At Registration"},
		Rows:   [][]string{},
	}

	for _, r := range commission.AllRoles {
		for _, e := range res.Role(r).Entries {
			// A named CGM with no rate has nothing to distribute.
			if r == commission.RoleCGM && !e.Rate.IsPositive() {
				continue
			}
			t.Rows = append(t.Rows, []string{
				orDash(e.Name),
				r.Label(),
				numfmt.Currency(e.Total),
				numfmt.Currency(e.AtAgreement),
				numfmt.Currency(e.AtRegistration),
			})
		}
	}
	return t
}

func roleTotalsTable(res commission.Result) Table {
	t := Table{
		Title:  "Role Totals",
		Header: []string{"Role", "Rate/Sq.Yd", "Total", "At Agreement", "At Registration"},
	}
	for _, r := range commission.AllRoles {
		rr := res.Role(r)
		if rr.Total.IsZero() {
			continue
		}
		t.Rows = append(t.Rows, []string{
			r.Label(),
			numfmt.IndianGrouping(rr.Rate),
			numfmt.IndianCurrency(rr.Total),
			numfmt.IndianCurrency(rr.AtAgreement),
			numfmt.IndianCurrency(rr.AtRegistration),
		})
	}
	return t
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
