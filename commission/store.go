/*
store.go - Persistence contract for commission records

PURPOSE:
  Defines the interface between the engine and the database. A commission
  is one parent row plus, for each multi-occupant role, zero or more child
  rows (one per person).

KEY TYPES:
  Draft:    What a write persists (input, derived result, breakdown blob)
  Record:   What a read returns (parent fields + child rows)
  EntryRow: One person's share, as stored in commission_{role}_entries
  Summary:  Listing/search projection

WRITE POLICY:
  Save inserts the parent and its child rows.
  Update overwrites every parent column, deletes all child rows of the
  commission and inserts them again from the current entries. No per-row
  diffing: a person added, removed or renamed between edits needs no
  identity tracking. The whole update is one transaction.

AUDIT:
  Save records the draft's actor as both creator and last editor. Update
  records it as the last editor only.

READ POLICY:
  Load returns the parent row and child rows as stored. It does not decide
  between the breakdown blob and reconstruction; see ResolveBreakdown.

DENORMALIZED COLUMNS:
  The per-role names/rate columns on the parent are Project(entries) at the
  time of the write, computed by Draft.Projections.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - commission/store/memory.go: In-memory for tests and development

SEE ALSO:
  - service.go: Builds drafts and resolves loaded records
*/
package commission

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE
// =============================================================================

// Store persists commission records.
type Store interface {
	// Save inserts a new commission and returns its id.
	Save(ctx context.Context, d Draft) (int64, error)

	// Update replaces commission id wholesale. Returns ErrNotFound if the
	// commission does not exist; nothing is written in that case.
	Update(ctx context.Context, id int64, d Draft) error

	// Load returns the commission with its child rows, or ErrNotFound.
	Load(ctx context.Context, id int64) (*Record, error)

	// FindLatest returns the newest commission for a plot. An empty
	// projectName matches any project.
	FindLatest(ctx context.Context, plotNo, projectName string) (*Record, error)

	// List returns summaries matching the filter, ordered by plot number.
	List(ctx context.Context, f Filter) ([]Summary, error)

	// Delete removes a commission and its child rows.
	Delete(ctx context.Context, id int64) error

	// Earnings sums what each person collected per role over the
	// commissions matching the filter, ranked highest first.
	Earnings(ctx context.Context, f EarningsFilter) ([]Earning, error)
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	ProjectName string // exact match
	PlotNo      string // substring match
}

// =============================================================================
// DRAFT - what a write persists
// =============================================================================

// Draft is a fully computed commission ready to be written.
type Draft struct {
	Input     SaleInput
	Result    Result
	Breakdown string
	Actor     string
}

// NewDraft computes the result and breakdown blob for in. Names are
// normalized once here so the child rows, the projections and the blob all
// carry the same entries.
func NewDraft(in SaleInput, actor string) Draft {
	in.CGM.Name = strings.TrimSpace(in.CGM.Name)
	in.Entries = in.Entries.Clean()
	return Draft{
		Input:     in,
		Result:    Compute(in),
		Breakdown: EncodeBreakdown(in.Entries),
		Actor:     actor,
	}
}

// Projections returns the denormalized names/rate of every role.
func (d Draft) Projections() map[Role]Projection {
	out := make(map[Role]Projection, len(AllRoles))
	out[RoleCGM] = Projection{Names: d.Input.CGM.Name, Rate: d.Input.CGM.Rate}
	for _, r := range MultiRoles {
		out[r] = Project(d.Input.Entries[r])
	}
	return out
}

// Rows returns the child rows of a multi role for commission id. Each row
// carries the split of one entry, computed with SplitOf.
func (d Draft) Rows(id int64, r Role) []EntryRow {
	sq := d.Input.SqYards
	pct := d.Input.AgreementPercentage

	var rows []EntryRow
	for _, e := range d.Input.Entries[r] {
		if e.IsTrivial() {
			continue
		}
		rows = append(rows, EntryRow{
			CommissionID: id,
			Name:         e.Name,
			Split:        SplitOf(e.Rate, sq, pct),
		})
	}
	return rows
}

// =============================================================================
// RECORD - what a read returns
// =============================================================================

// EntryRow is one stored per-person share.
type EntryRow struct {
	CommissionID int64
	Name         string
	Split
}

// Record is a stored commission. Input.Entries is empty on load; resolve it
// from Breakdown (or Projections) with ResolveBreakdown.
type Record struct {
	ID          int64
	Reference   string
	Input       SaleInput
	Result      Result
	Breakdown   string
	Projections map[Role]Projection
	Rows        map[Role][]EntryRow

	CreatedBy string
	UpdatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is the listing view of a commission.
type Summary struct {
	ID          int64
	Reference   string
	PlotNo      string
	ProjectName string
	CGMName     string
	SrGMNames   string
	GMNames     string
	TotalAmount decimal.Decimal
	UpdatedAt   time.Time
}
