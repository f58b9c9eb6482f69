// Package store provides commission.Store implementations.
package store

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plotdesk/commission-engine/commission"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*commission.Record
}

func NewMemory() *Memory {
	return &Memory{
		nextID:  1,
		records: make(map[int64]*commission.Record),
	}
}

// Save stores a new commission.
func (m *Memory) Save(_ context.Context, d commission.Draft) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	now := time.Now().UTC()
	rec := recordFromDraft(id, d)
	rec.Reference = uuid.NewString()
	rec.CreatedBy = d.Actor
	rec.UpdatedBy = d.Actor
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.records[id] = rec
	return id, nil
}

// Update replaces a commission; the swap happens under one lock.
func (m *Memory) Update(_ context.Context, id int64, d commission.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.records[id]
	if !ok {
		return commission.ErrNotFound
	}

	rec := recordFromDraft(id, d)
	rec.Reference = old.Reference
	rec.CreatedBy = old.CreatedBy
	rec.CreatedAt = old.CreatedAt
	rec.UpdatedBy = d.Actor
	rec.UpdatedAt = time.Now().UTC()
	m.records[id] = rec
	return nil
}

// Load returns a copy of commission id.
func (m *Memory) Load(_ context.Context, id int64) (*commission.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, commission.ErrNotFound
	}
	return cloneRecord(rec), nil
}

// FindLatest returns the highest-id commission for the plot.
func (m *Memory) FindLatest(_ context.Context, plotNo, projectName string) (*commission.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *commission.Record
	for _, rec := range m.records {
		if rec.Input.PlotNo != plotNo {
			continue
		}
		if projectName != "" && rec.Input.ProjectName != projectName {
			continue
		}
		if best == nil || rec.ID > best.ID {
			best = rec
		}
	}
	if best == nil {
		return nil, commission.ErrNotFound
	}
	return cloneRecord(best), nil
}

// List returns summaries ordered by plot number, then id.
func (m *Memory) List(_ context.Context, f commission.Filter) ([]commission.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []commission.Summary
	for _, rec := range m.records {
		if f.ProjectName != "" && rec.Input.ProjectName != f.ProjectName {
			continue
		}
		if f.PlotNo != "" && !strings.Contains(rec.Input.PlotNo, f.PlotNo) {
			continue
		}
		out = append(out, summaryOf(rec))
	}

	sort.Slice(out, func(i, j int) bool {
		ni, nj := leadingInt(out[i].PlotNo), leadingInt(out[j].PlotNo)
		if ni != nj {
			return ni < nj
		}
		if out[i].PlotNo != out[j].PlotNo {
			return out[i].PlotNo < out[j].PlotNo
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// leadingInt mirrors SQLite's CAST(plot_no AS INTEGER): leading spaces are
// skipped, then an optional sign and the leading digits are read. No digits
// gives 0.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	return n
}

// Delete removes commission id.
func (m *Memory) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return commission.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

// Earnings sums CGM totals and child rows of the matching commissions.
func (m *Memory) Earnings(_ context.Context, f commission.EarningsFilter) ([]commission.Earning, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var shares []commission.Share
	for _, id := range ids {
		rec := m.records[id]
		if !f.Matches(rec) {
			continue
		}
		if f.Includes(commission.RoleCGM) && rec.Input.CGM.Name != "" {
			shares = append(shares, commission.Share{
				CommissionID: id,
				Role:         commission.RoleCGM,
				Name:         rec.Input.CGM.Name,
				Total:        rec.Result.Roles[commission.RoleCGM].Total,
			})
		}
		for _, r := range commission.MultiRoles {
			if !f.Includes(r) {
				continue
			}
			for _, row := range rec.Rows[r] {
				shares = append(shares, commission.Share{
					CommissionID: id,
					Role:         r,
					Name:         row.Name,
					Total:        row.Total,
				})
			}
		}
	}
	return commission.TallyEarnings(shares, f.Limit), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// recordFromDraft shapes a draft the way a database round trip would: the
// typed entries are dropped and only the blob, projections and rows remain.
func recordFromDraft(id int64, d commission.Draft) *commission.Record {
	in := d.Input
	in.Entries = nil

	res := d.Result
	res.Roles = make(map[commission.Role]commission.RoleResult, len(d.Result.Roles))
	for r, rr := range d.Result.Roles {
		rr.Entries = nil
		res.Roles[r] = rr
	}

	rows := make(map[commission.Role][]commission.EntryRow, len(commission.MultiRoles))
	for _, r := range commission.MultiRoles {
		rows[r] = d.Rows(id, r)
	}

	return &commission.Record{
		ID:          id,
		Input:       in,
		Result:      res,
		Breakdown:   d.Breakdown,
		Projections: d.Projections(),
		Rows:        rows,
	}
}

func cloneRecord(rec *commission.Record) *commission.Record {
	c := *rec

	c.Result.Roles = make(map[commission.Role]commission.RoleResult, len(rec.Result.Roles))
	for r, rr := range rec.Result.Roles {
		c.Result.Roles[r] = rr
	}

	c.Projections = make(map[commission.Role]commission.Projection, len(rec.Projections))
	for r, p := range rec.Projections {
		c.Projections[r] = p
	}

	c.Rows = make(map[commission.Role][]commission.EntryRow, len(rec.Rows))
	for r, rows := range rec.Rows {
		c.Rows[r] = append([]commission.EntryRow(nil), rows...)
	}
	return &c
}

func summaryOf(rec *commission.Record) commission.Summary {
	return commission.Summary{
		ID:          rec.ID,
		Reference:   rec.Reference,
		PlotNo:      rec.Input.PlotNo,
		ProjectName: rec.Input.ProjectName,
		CGMName:     rec.Input.CGM.Name,
		SrGMNames:   rec.Projections[commission.RoleSrGM].Names,
		GMNames:     rec.Projections[commission.RoleGM].Names,
		TotalAmount: rec.Result.TotalAmount,
		UpdatedAt:   rec.UpdatedAt,
	}
}
