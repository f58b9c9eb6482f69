/*
breakdown.go - Serialized per-person entries

PURPOSE:
  Each stored commission carries a "breakdown" blob: the ordered
  [name, rate] pairs of every multi-occupant role. It lets a record be
  reopened for editing or exported with the exact per-person rates that
  were entered, which the denormalized name/rate columns cannot provide.

FORMAT:
  {"srgm": [["Ravi", 50], ["Kiran", 25]], "gm": [], "dgm": [], "agm": []}

  Rates are plain JSON numbers. Every multi role is written, empty roles as
  []. Unknown keys (older blobs carry "agent") are ignored on read.

FAIL-SOFT DECODE:
  DecodeBreakdown never returns an error. A missing, empty or malformed
  blob yields ok=false, which tells the caller to fall back to
  Reconstruct. Records written before the blob existed must still render.

SEE ALSO:
  - reconstruct.go: The fallback
*/
package commission

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// EncodeBreakdown serializes the multi-role entries of b. Trivial entries
// are dropped.
func EncodeBreakdown(b Breakdown) string {
	clean := b.Clean()

	doc := make(map[Role][][2]any, len(MultiRoles))
	for _, r := range MultiRoles {
		pairs := make([][2]any, 0, len(clean[r]))
		for _, e := range clean[r] {
			pairs = append(pairs, [2]any{e.Name, json.Number(e.Rate.String())})
		}
		doc[r] = pairs
	}

	// Map keys are sorted by encoding/json, so equal input gives equal output.
	out, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(out)
}

// DecodeBreakdown parses a blob written by EncodeBreakdown. ok is false when
// the blob is absent or unreadable.
func DecodeBreakdown(blob string) (b Breakdown, ok bool) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(blob)))
	dec.UseNumber()

	var doc map[string][][]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return nil, false
	}

	b = make(Breakdown, len(MultiRoles))
	for _, r := range MultiRoles {
		var entries []RoleEntry
		for _, pair := range doc[string(r)] {
			e, valid := decodePair(pair)
			if !valid {
				return nil, false
			}
			if !e.IsTrivial() {
				entries = append(entries, e)
			}
		}
		b[r] = entries
	}
	return b, true
}

func decodePair(pair []any) (RoleEntry, bool) {
	if len(pair) < 2 {
		return RoleEntry{}, false
	}

	var name string
	switch v := pair[0].(type) {
	case string:
		name = strings.TrimSpace(v)
	case nil:
	default:
		return RoleEntry{}, false
	}

	var rate decimal.Decimal
	switch v := pair[1].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return RoleEntry{}, false
		}
		rate = d
	case nil:
		rate = decimal.Zero
	default:
		return RoleEntry{}, false
	}

	return RoleEntry{Name: name, Rate: rate}, true
}
