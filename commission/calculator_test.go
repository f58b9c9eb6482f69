package commission_test

import (
	"testing"

	"github.com/plotdesk/commission-engine/commission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func entry(name, rate string) commission.RoleEntry {
	return commission.RoleEntry{Name: name, Rate: d(rate)}
}

// plotSale is the worked example used across the package tests.
func plotSale() commission.SaleInput {
	return commission.SaleInput{
		PlotNo:                "42",
		ProjectName:           "Green Meadows",
		SqYards:               d("200"),
		OriginalPrice:         d("5000"),
		NegotiatedPrice:       d("4500"),
		AdvanceReceived:       d("100000"),
		AgreementPercentage:   d("0.25"),
		AmountPaidAtAgreement: d("50000"),
		BrokerCommission:      d("2300"),
		CGM:                   entry("CGM1", "100"),
		Entries: commission.Breakdown{
			commission.RoleSrGM: {entry("SRGM1", "50")},
		},
	}
}

// =============================================================================
// END-TO-END
// =============================================================================

func TestCompute_PlotSale(t *testing.T) {
	// GIVEN: 200 sq yd at 4500 with 25% due at agreement
	// WHEN: Computing the commission
	// THEN: Totals and CGM/SrGM splits match the worked example

	res := commission.Compute(plotSale())

	assertDecimal(t, "900000", res.TotalAmount)
	assertDecimal(t, "1100000", res.WValue)
	assertDecimal(t, "-200000", res.BValue)
	assertDecimal(t, "800000", res.BalanceAmount)
	assertDecimal(t, "225000", res.ActualAgreementAmount)
	assertDecimal(t, "75000", res.AgreementBalance)

	cgm := res.Role(commission.RoleCGM)
	assertDecimal(t, "20000", cgm.Total)
	assertDecimal(t, "5000", cgm.AtAgreement)
	assertDecimal(t, "15000", cgm.AtRegistration)

	srgm := res.Role(commission.RoleSrGM)
	assertDecimal(t, "50", srgm.Rate)
	assertDecimal(t, "10000", srgm.Total)
	require.Len(t, srgm.Entries, 1)
	assert.Equal(t, "SRGM1", srgm.Entries[0].Name)

	gm := res.Role(commission.RoleGM)
	assert.True(t, gm.Total.IsZero())
	assert.Empty(t, gm.Entries)
}

func TestCompute_AMCAddsToTotal(t *testing.T) {
	in := plotSale()
	in.AMCCharges = d("100")

	res := commission.Compute(in)

	// 200*4500 + 100*200
	assertDecimal(t, "920000", res.TotalAmount)
}

// =============================================================================
// INVARIANTS
// =============================================================================

func TestCompute_EntriesAddUpToRoleTotal(t *testing.T) {
	// GIVEN: Three GMs with uneven rates, plus a trivial row the form left behind
	// WHEN: Computing
	// THEN: The per-person totals sum to the role total

	in := plotSale()
	in.SqYards = d("173.5")
	in.AgreementPercentage = d("0.3333")
	in.Entries[commission.RoleGM] = []commission.RoleEntry{
		entry("Asha", "12.5"),
		entry("Bala", "7.25"),
		entry("", "0"),
		entry("Chand", "33"),
	}

	res := commission.Compute(in)
	gm := res.Role(commission.RoleGM)

	require.Len(t, gm.Entries, 3)
	sum := decimal.Zero
	for _, e := range gm.Entries {
		sum = sum.Add(e.Total)
	}
	assertDecimal(t, gm.Total.String(), sum)
	assertDecimal(t, "52.75", gm.Rate)
}

func TestCompute_AgreementPlusRegistrationIsTotal(t *testing.T) {
	in := plotSale()
	in.SqYards = d("211.11")
	in.AgreementPercentage = d("0.137")
	in.Entries[commission.RoleDGM] = []commission.RoleEntry{entry("D1", "17.3"), entry("D2", "9.9")}
	in.Entries[commission.RoleAGM] = []commission.RoleEntry{entry("A1", "3.7")}

	res := commission.Compute(in)

	for _, r := range commission.AllRoles {
		rr := res.Role(r)
		assert.True(t, rr.AtAgreement.Add(rr.AtRegistration).Equal(rr.Total), "role %s", r)
		for _, e := range rr.Entries {
			assert.True(t, e.AtAgreement.Add(e.AtRegistration).Equal(e.Total), "role %s entry %s", r, e.Name)
		}
	}
}

func TestCompute_ZeroInputs(t *testing.T) {
	// GIVEN: An empty sale
	// THEN: Every figure is zero, nothing panics

	res := commission.Compute(commission.SaleInput{})

	assert.True(t, res.TotalAmount.IsZero())
	assert.True(t, res.WValue.IsZero())
	for _, r := range commission.AllRoles {
		assert.True(t, res.Role(r).Total.IsZero(), "role %s", r)
	}
}

func TestCompute_NamedZeroRatePlaceholderKept(t *testing.T) {
	in := plotSale()
	in.Entries[commission.RoleAGM] = []commission.RoleEntry{entry("Trainee", "0")}

	res := commission.Compute(in)

	agm := res.Role(commission.RoleAGM)
	require.Len(t, agm.Entries, 1)
	assert.Equal(t, "Trainee", agm.Entries[0].Name)
	assert.True(t, agm.Entries[0].Total.IsZero())
}

func TestSplitOf(t *testing.T) {
	s := commission.SplitOf(d("100"), d("200"), d("0.25"))

	assertDecimal(t, "20000", s.Total)
	assertDecimal(t, "5000", s.AtAgreement)
	assertDecimal(t, "15000", s.AtRegistration)
}

func TestRoleEntry_IsTrivial(t *testing.T) {
	assert.True(t, entry("", "0").IsTrivial())
	assert.True(t, entry("", "-5").IsTrivial())
	assert.False(t, entry("Ravi", "0").IsTrivial())
	assert.False(t, entry("", "10").IsTrivial())
}

func TestRole_Label(t *testing.T) {
	assert.Equal(t, "Sr. GM", commission.RoleSrGM.Label())
	assert.Equal(t, "CGM", commission.RoleCGM.Label())
	assert.True(t, commission.RoleAGM.IsMulti())
	assert.False(t, commission.RoleCGM.IsMulti())
}
