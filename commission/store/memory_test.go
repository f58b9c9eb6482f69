package store

import (
	"context"
	"testing"
	"time"

	"github.com/plotdesk/commission-engine/commission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func entry(name, rate string) commission.RoleEntry {
	return commission.RoleEntry{Name: name, Rate: d(rate)}
}

func sale(plotNo string, srgm ...commission.RoleEntry) commission.SaleInput {
	return commission.SaleInput{
		PlotNo:              plotNo,
		ProjectName:         "Green Meadows",
		SqYards:             d("200"),
		NegotiatedPrice:     d("4500"),
		AgreementPercentage: d("0.25"),
		CGM:                 entry("CGM1", "100"),
		Entries: commission.Breakdown{
			commission.RoleSrGM: srgm,
		},
	}
}

// =============================================================================
// ORDERING
// =============================================================================

func TestLeadingInt(t *testing.T) {
	// Same results as SQLite's CAST(x AS INTEGER).
	tests := []struct {
		in   string
		want int64
	}{
		{"12", 12},
		{"12A", 12},
		{"A12", 0},
		{" 7", 7},
		{"7 ", 7},
		{"", 0},
		{"-3", -3},
		{"+4B", 4},
		{"-", 0},
		{"007", 7},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, leadingInt(tt.in))
		})
	}
}

func TestMemory_ListOrdersLikeSQLite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, plot := range []string{"100", "12A", "A12", "9", " 7", "12"} {
		_, err := m.Save(ctx, commission.NewDraft(sale(plot), "admin"))
		require.NoError(t, err)
	}

	all, err := m.List(ctx, commission.Filter{})
	require.NoError(t, err)

	var got []string
	for _, s := range all {
		got = append(got, s.PlotNo)
	}
	assert.Equal(t, []string{"A12", " 7", "9", "12", "12A", "100"}, got)

	some, err := m.List(ctx, commission.Filter{PlotNo: "12"})
	require.NoError(t, err)
	assert.Len(t, some, 3)
}

// =============================================================================
// WRITES
// =============================================================================

func TestMemory_SaveUpdateDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id, err := m.Save(ctx, commission.NewDraft(sale("42", entry("A", "20"), entry("B", "20")), "admin"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	rec, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Reference)
	assert.Equal(t, "admin", rec.CreatedBy)
	assert.Equal(t, "admin", rec.UpdatedBy)
	assert.Empty(t, rec.Input.Entries, "entries are resolved from the blob, not kept")
	require.Len(t, rec.Rows[commission.RoleSrGM], 2)
	assert.Equal(t, "A, B", rec.Projections[commission.RoleSrGM].Names)

	// Loaded copies do not alias the stored record.
	rec.Rows[commission.RoleSrGM][0].Name = "changed"
	again, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", again.Rows[commission.RoleSrGM][0].Name)

	require.NoError(t, m.Update(ctx, id, commission.NewDraft(sale("42", entry("B", "35")), "editor")))
	updated, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec.Reference, updated.Reference)
	assert.Equal(t, "admin", updated.CreatedBy)
	assert.Equal(t, "editor", updated.UpdatedBy)
	assert.Equal(t, rec.CreatedAt, updated.CreatedAt)
	require.Len(t, updated.Rows[commission.RoleSrGM], 1)
	assert.True(t, d("7000").Equal(updated.Rows[commission.RoleSrGM][0].Total))

	assert.ErrorIs(t, m.Update(ctx, 99, commission.NewDraft(sale("1"), "x")), commission.ErrNotFound)

	require.NoError(t, m.Delete(ctx, id))
	_, err = m.Load(ctx, id)
	assert.ErrorIs(t, err, commission.ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, id), commission.ErrNotFound)
}

func TestMemory_FindLatest(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Save(ctx, commission.NewDraft(sale("42"), "admin"))
	require.NoError(t, err)
	newest, err := m.Save(ctx, commission.NewDraft(sale("42"), "admin"))
	require.NoError(t, err)
	other := sale("42")
	other.ProjectName = "Lake View"
	_, err = m.Save(ctx, commission.NewDraft(other, "admin"))
	require.NoError(t, err)

	rec, err := m.FindLatest(ctx, "42", "Green Meadows")
	require.NoError(t, err)
	assert.Equal(t, newest, rec.ID)

	_, err = m.FindLatest(ctx, "43", "")
	assert.ErrorIs(t, err, commission.ErrNotFound)
}

// =============================================================================
// EARNINGS
// =============================================================================

func TestMemory_Earnings(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Save(ctx, commission.NewDraft(sale("1", entry("Ravi", "50")), "admin"))
	require.NoError(t, err)
	_, err = m.Save(ctx, commission.NewDraft(sale("2", entry("Ravi", "25.5")), "admin"))
	require.NoError(t, err)
	elsewhere := sale("3", entry("Ravi", "40"))
	elsewhere.ProjectName = "Lake View"
	_, err = m.Save(ctx, commission.NewDraft(elsewhere, "admin"))
	require.NoError(t, err)

	got, err := m.Earnings(ctx, commission.EarningsFilter{ProjectName: "Green Meadows", Role: commission.RoleSrGM})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ravi", got[0].Name)
	assert.True(t, d("15100").Equal(got[0].Total), got[0].Total.String())
	assert.Equal(t, 2, got[0].Commissions)

	all, err := m.Earnings(ctx, commission.EarningsFilter{Month: time.Now().UTC().Format(commission.MonthLayout)})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, commission.RoleCGM, all[0].Role)
	assert.True(t, d("60000").Equal(all[0].Total))
	assert.True(t, d("23100").Equal(all[1].Total))
}
