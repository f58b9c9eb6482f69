package commission_test

import (
	"testing"

	"github.com/plotdesk/commission-engine/commission"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// RECONSTRUCT
// =============================================================================

func TestReconstruct_EqualSplit(t *testing.T) {
	got := commission.Reconstruct("A, B, C", d("90"))

	assertEntries(t, []commission.RoleEntry{
		entry("A", "30"),
		entry("B", "30"),
		entry("C", "30"),
	}, got)
}

func TestReconstruct_IgnoresBlankNames(t *testing.T) {
	got := commission.Reconstruct(" A ,, B ,", d("50"))

	assertEntries(t, []commission.RoleEntry{entry("A", "25"), entry("B", "25")}, got)
}

func TestReconstruct_NoNames(t *testing.T) {
	// GIVEN: A role with money but no names
	// THEN: One unnamed entry carries the whole rate
	assertEntries(t, []commission.RoleEntry{entry("", "50")}, commission.Reconstruct("", d("50")))

	// GIVEN: Neither names nor money
	// THEN: Nothing
	assert.Empty(t, commission.Reconstruct("", d("0")))
	assert.Empty(t, commission.Reconstruct("  ", d("-3")))
}

func TestReconstruct_PreservesAggregate(t *testing.T) {
	got := commission.Reconstruct("A, B, C, D", d("100"))

	sum := d("0")
	for _, e := range got {
		sum = sum.Add(e.Rate)
	}
	assertDecimal(t, "100", sum)
}

// =============================================================================
// PROJECT
// =============================================================================

func TestProject(t *testing.T) {
	p := commission.Project([]commission.RoleEntry{
		entry("Ravi", "50"),
		entry("", "10"),
		entry("", "0"),
		entry("Kiran", "25"),
	})

	assert.Equal(t, "Ravi, Kiran", p.Names)
	assertDecimal(t, "85", p.Rate)
}

func TestProject_ThenReconstruct(t *testing.T) {
	// GIVEN: Two people at equal rates
	// WHEN: Projecting and rebuilding
	// THEN: The original entries come back
	entries := []commission.RoleEntry{entry("Ravi", "40"), entry("Kiran", "40")}

	p := commission.Project(entries)

	assertEntries(t, entries, commission.Reconstruct(p.Names, p.Rate))
}

// =============================================================================
// RESOLVE
// =============================================================================

func TestResolveBreakdown_PrefersStoredBlob(t *testing.T) {
	blob := commission.EncodeBreakdown(commission.Breakdown{
		commission.RoleSrGM: {entry("Ravi", "60"), entry("Kiran", "30")},
	})
	projections := map[commission.Role]commission.Projection{
		commission.RoleSrGM: {Names: "Ravi, Kiran", Rate: d("90")},
	}

	res := commission.ResolveBreakdown(blob, projections)

	assert.Equal(t, commission.SourceStored, res.Source)
	assert.False(t, res.Approximate())
	assertEntries(t, []commission.RoleEntry{entry("Ravi", "60"), entry("Kiran", "30")}, res.Entries[commission.RoleSrGM])
}

func TestResolveBreakdown_FallsBackToProjection(t *testing.T) {
	// GIVEN: A record saved before the breakdown blob existed
	projections := map[commission.Role]commission.Projection{
		commission.RoleCGM:  {Names: "Boss", Rate: d("100")},
		commission.RoleSrGM: {Names: "Ravi, Kiran", Rate: d("90")},
		commission.RoleGM:   {Names: "", Rate: d("20")},
	}

	res := commission.ResolveBreakdown("{corrupt", projections)

	require.True(t, res.Approximate())
	assertEntries(t, []commission.RoleEntry{entry("Ravi", "45"), entry("Kiran", "45")}, res.Entries[commission.RoleSrGM])
	assertEntries(t, []commission.RoleEntry{entry("", "20")}, res.Entries[commission.RoleGM])
	assert.Empty(t, res.Entries[commission.RoleDGM])
	_, hasCGM := res.Entries[commission.RoleCGM]
	assert.False(t, hasCGM)
}
