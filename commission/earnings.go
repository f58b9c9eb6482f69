/*
earnings.go - Per-person earnings across commissions

PURPOSE:
  Answers "who earned what" for the management dashboard: the commission
  each named person collected in each role, summed over every commission
  that matches a filter, ranked from the top earner down.

SOURCES:
  CGM:        The parent record (cgm name, cgm total)
  Multi roles: The stored child rows (one per person per commission)

  A person listed under two roles appears twice, once per role. Shares
  without a name are not credited to anyone and are left out.

FILTERS:
  ProjectName  exact project
  CGMName      exact CGM of the commission (narrows every role)
  Month        "YYYY-MM" of the commission's creation date (UTC)
  Role         one role only
  Limit        top N after ranking, 0 for all

SEE ALSO:
  - store.go: Store.Earnings
  - service.go: Service.Earnings validates the filter
*/
package commission

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout is the time layout of EarningsFilter.Month.
const MonthLayout = "2006-01"

// EarningsFilter narrows Earnings. Empty fields match everything.
type EarningsFilter struct {
	ProjectName string
	CGMName     string
	Month       string
	Role        Role
	Limit       int
}

// Validate rejects a malformed month, an unknown role or a negative limit.
func (f EarningsFilter) Validate() error {
	if f.Month != "" {
		if _, err := time.Parse(MonthLayout, f.Month); err != nil {
			return fmt.Errorf("%w: month %q is not YYYY-MM", ErrInvalidFilter, f.Month)
		}
	}
	if f.Role != "" && f.Role != RoleCGM && !f.Role.IsMulti() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidFilter, f.Role)
	}
	if f.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidFilter)
	}
	return nil
}

// Includes reports whether role r is covered by the filter.
func (f EarningsFilter) Includes(r Role) bool {
	return f.Role == "" || f.Role == r
}

// Matches reports whether a stored commission falls inside the filter.
func (f EarningsFilter) Matches(rec *Record) bool {
	if f.ProjectName != "" && rec.Input.ProjectName != f.ProjectName {
		return false
	}
	if f.CGMName != "" && rec.Input.CGM.Name != f.CGMName {
		return false
	}
	if f.Month != "" && rec.CreatedAt.UTC().Format(MonthLayout) != f.Month {
		return false
	}
	return true
}

// Earning is what one person collected in one role.
type Earning struct {
	Role        Role
	Name        string
	Total       decimal.Decimal
	Commissions int
}

// Share is one person's commission in one record, the unit Earnings sums.
type Share struct {
	CommissionID int64
	Role         Role
	Name         string
	Total        decimal.Decimal
}

// TallyEarnings sums shares per role and name and ranks the result by total,
// highest first. Ties keep role order, then name order. A positive limit
// keeps only the top entries.
func TallyEarnings(shares []Share, limit int) []Earning {
	type key struct {
		role Role
		name string
	}
	idx := make(map[key]int)
	seen := make(map[key]map[int64]bool)
	var out []Earning

	for _, s := range shares {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		k := key{s.Role, name}
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			seen[k] = make(map[int64]bool)
			out = append(out, Earning{Role: s.Role, Name: name, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(s.Total)
		if !seen[k][s.CommissionID] {
			seen[k][s.CommissionID] = true
			out[i].Commissions++
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		if ri, rj := roleOrder(out[i].Role), roleOrder(out[j].Role); ri != rj {
			return ri < rj
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func roleOrder(r Role) int {
	for i, x := range AllRoles {
		if x == r {
			return i
		}
	}
	return len(AllRoles)
}
