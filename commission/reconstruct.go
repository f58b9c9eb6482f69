/*
reconstruct.go - Rebuilding per-person entries for records without a breakdown

PURPOSE:
  Older records only kept, per role, a comma-joined list of names and the
  summed rate. Reconstruct turns that back into entries by dividing the
  rate equally among the names.

APPROXIMATION:
  An equal split is a guess, not a recovered fact. The original per-person
  rates of such records are gone. Resolutions built from it are marked
  SourceReconstructed and statements show a caveat next to them.

PROJECTION:
  Project is the inverse direction, used at write time: it derives the
  comma-joined names and summed rate from the authoritative entries. The
  stored names/rates are always this projection, never edited on their own.

SEE ALSO:
  - breakdown.go: The preferred, lossless path
  - service.go:   Where decode-then-fallback is decided
*/
package commission

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NameSeparator joins names in the denormalized per-role name column.
const NameSeparator = ", "

// Reconstruct splits combinedNames on commas and shares aggregateRate equally
// among the non-empty names. With no names and a positive rate it returns a
// single unnamed entry holding the whole rate, so the money is not lost.
func Reconstruct(combinedNames string, aggregateRate decimal.Decimal) []RoleEntry {
	var names []string
	for _, n := range strings.Split(combinedNames, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}

	if len(names) == 0 {
		if aggregateRate.IsPositive() {
			return []RoleEntry{{Name: "", Rate: aggregateRate}}
		}
		return nil
	}

	perPerson := aggregateRate.Div(decimal.NewFromInt(int64(len(names))))
	entries := make([]RoleEntry, len(names))
	for i, n := range names {
		entries[i] = RoleEntry{Name: n, Rate: perPerson}
	}
	return entries
}

// Projection is the denormalized view of a role stored on the parent row.
type Projection struct {
	Names string
	Rate  decimal.Decimal
}

// Project derives the comma-joined names and total rate of entries.
func Project(entries []RoleEntry) Projection {
	var names []string
	rate := decimal.Zero
	for _, e := range entries {
		if e.IsTrivial() {
			continue
		}
		if n := strings.TrimSpace(e.Name); n != "" {
			names = append(names, n)
		}
		rate = rate.Add(e.Rate)
	}
	return Projection{Names: strings.Join(names, NameSeparator), Rate: rate}
}

// =============================================================================
// RESOLUTION - decode first, reconstruct on failure
// =============================================================================

type BreakdownSource string

const (
	SourceStored        BreakdownSource = "stored"
	SourceReconstructed BreakdownSource = "reconstructed"
)

// Resolution is the set of entries to display or edit, and where it came from.
type Resolution struct {
	Entries Breakdown
	Source  BreakdownSource
}

// Approximate reports whether the entries are an equal-split guess.
func (r Resolution) Approximate() bool {
	return r.Source == SourceReconstructed
}

// ResolveBreakdown returns the stored breakdown when blob decodes, otherwise
// reconstructs every multi role from its projection.
func ResolveBreakdown(blob string, projections map[Role]Projection) Resolution {
	if b, ok := DecodeBreakdown(blob); ok {
		return Resolution{Entries: b, Source: SourceStored}
	}

	b := make(Breakdown, len(MultiRoles))
	for _, r := range MultiRoles {
		p := projections[r]
		b[r] = Reconstruct(p.Names, p.Rate)
	}
	return Resolution{Entries: b, Source: SourceReconstructed}
}
