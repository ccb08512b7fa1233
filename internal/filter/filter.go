package filter

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"customer-svc/internal/types"
)

// SortField names the column a comparator runs against. Anything outside the
// known set sorts as a no-op, preserving input order; that behavior is part of
// the contract, not an accident.
type SortField string

const (
	SortByName  SortField = "name"
	SortByEmail SortField = "email"
	SortByDate  SortField = "date"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortKey is the composite field-direction pair, e.g. "name-asc".
type SortKey struct {
	Field     SortField
	Direction Direction
}

// ParseSortKey splits a "field-direction" query value. Malformed input yields
// the zero key, which sorts as a no-op.
func ParseSortKey(raw string) SortKey {
	field, direction, ok := strings.Cut(raw, "-")
	if !ok {
		return SortKey{}
	}
	return SortKey{Field: SortField(field), Direction: Direction(direction)}
}

// DateRange bounds created_at inclusively. Both ends must be set for the
// filter to apply; bounds are ISO dates compared as millisecond timestamps.
type DateRange struct {
	Start string
	End   string
}

// Spec is the combined search / nationality / date-range / sort refinement
// applied to a customer collection.
type Spec struct {
	Search      string
	Nationality types.Nationality
	Range       *DateRange
	Sort        SortKey
}

// Apply filters and sorts records. It is a pure function: the input slice is
// never mutated, the output is deterministic, and re-applying the same spec to
// its own output returns the same sequence.
func Apply(records []types.Customer, spec Spec) []types.Customer {
	out := append([]types.Customer(nil), records...)

	if q := strings.ToLower(spec.Search); q != "" {
		out = keep(out, func(c types.Customer) bool {
			return strings.Contains(strings.ToLower(c.Name), q) ||
				strings.Contains(strings.ToLower(c.Email), q)
		})
	}

	if spec.Nationality != "" {
		out = keep(out, func(c types.Customer) bool {
			return c.Nationality == spec.Nationality
		})
	}

	if spec.Range != nil && spec.Range.Start != "" && spec.Range.End != "" {
		start, errStart := time.Parse(types.DateLayout, spec.Range.Start)
		end, errEnd := time.Parse(types.DateLayout, spec.Range.End)
		if errStart == nil && errEnd == nil {
			startMs, endMs := start.UnixMilli(), end.UnixMilli()
			out = keep(out, func(c types.Customer) bool {
				ms := c.CreatedAt.UnixMilli()
				return ms >= startMs && ms <= endMs
			})
		}
	}

	sortRecords(out, spec.Sort)
	return out
}

func keep(records []types.Customer, pred func(types.Customer) bool) []types.Customer {
	filtered := records[:0]
	for _, c := range records {
		if pred(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func sortRecords(records []types.Customer, key SortKey) {
	var collator *collate.Collator
	if key.Field == SortByName || key.Field == SortByEmail {
		collator = collate.New(language.English)
	}

	sort.SliceStable(records, func(i, j int) bool {
		var cmp int
		switch key.Field {
		case SortByName:
			cmp = collator.CompareString(records[i].Name, records[j].Name)
		case SortByEmail:
			cmp = collator.CompareString(records[i].Email, records[j].Email)
		case SortByDate:
			a, b := records[i].CreatedAt.UnixMilli(), records[j].CreatedAt.UnixMilli()
			switch {
			case a < b:
				cmp = -1
			case a > b:
				cmp = 1
			}
		default:
			cmp = 0
		}
		if key.Direction == Descending {
			cmp = -cmp
		}
		return cmp < 0
	})
}
