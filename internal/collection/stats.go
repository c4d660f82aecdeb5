package collection

import (
	"sort"

	"opml-gardener/internal/domain/entity"
)

// Stats holds the derived counts over the current collection.
// Recomputed on every read; O(n) is cheap at the expected scale of
// hundreds to low thousands of records.
type Stats struct {
	Total     int `json:"total"`
	Selected  int `json:"selected"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Unchecked int `json:"unchecked"`
}

// DeriveStats computes counts over the collection in one pass.
func DeriveStats(feeds []*entity.Feed) Stats {
	s := Stats{Total: len(feeds)}
	for _, f := range feeds {
		if f.Selected {
			s.Selected++
		}
		switch f.Validity {
		case entity.ValidityValid:
			s.Valid++
		case entity.ValidityInvalid:
			s.Invalid++
		default:
			s.Unchecked++
		}
	}
	return s
}

// Categories returns the distinct category values currently present,
// lexicographically sorted.
func Categories(feeds []*entity.Feed) []string {
	seen := make(map[string]bool, len(feeds))
	out := make([]string, 0, len(feeds))
	for _, f := range feeds {
		if seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		out = append(out, f.Category)
	}
	sort.Strings(out)
	return out
}
