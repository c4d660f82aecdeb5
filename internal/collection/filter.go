// Package collection provides pure query and mutation operations over the
// in-memory feed collection. Every mutation returns a new slice and clones
// only the records it changes, so history snapshots can share unmodified
// records safely.
package collection

import (
	"strings"

	"opml-gardener/internal/domain/entity"
)

// All is the wildcard value for category and validity filters.
const All = "all"

// Filter holds the three predicates applied to a collection view.
// All three AND together; zero values match everything.
type Filter struct {
	// Query matches case-insensitively against title or feed URL.
	Query string
	// Category matches exactly; "all" or empty disables the predicate.
	Category string
	// Validity matches the tri-state value; "all" or empty disables it.
	Validity string
}

// Apply returns the ordered subsequence of feeds matching the filter.
// The input slice is never modified.
func Apply(feeds []*entity.Feed, f Filter) []*entity.Feed {
	query := strings.ToLower(f.Query)

	out := make([]*entity.Feed, 0, len(feeds))
	for _, feed := range feeds {
		if !matchesQuery(feed, query) {
			continue
		}
		if f.Category != "" && f.Category != All && feed.Category != f.Category {
			continue
		}
		if f.Validity != "" && f.Validity != All && string(feed.Validity) != f.Validity {
			continue
		}
		out = append(out, feed)
	}
	return out
}

func matchesQuery(feed *entity.Feed, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(feed.Title), query) ||
		strings.Contains(strings.ToLower(feed.FeedURL), query)
}
