package collection

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"opml-gardener/internal/domain/entity"
)

// SortField selects which feed attribute a sort compares.
type SortField string

const (
	SortByTitle       SortField = "title"
	SortByCategory    SortField = "category"
	SortByFeedURL     SortField = "feedUrl"
	SortByValidity    SortField = "validity"
	SortByLastChecked SortField = "lastChecked"
	SortByLastUpdated SortField = "lastUpdated"
)

// Direction is the sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// collator performs locale-aware, case-folded string comparison.
// collate.Compare is not safe for concurrent use, so access is funneled
// through the session's single-writer discipline; views are computed one
// at a time.
var collator = collate.New(language.Und, collate.Loose)

// SortBy returns a stably sorted copy of feeds. The input slice and its
// records are never modified. Absent timestamps sort as the earliest
// possible value; validity orders unknown < invalid < valid.
func SortBy(feeds []*entity.Feed, field SortField, dir Direction) []*entity.Feed {
	out := make([]*entity.Feed, len(feeds))
	copy(out, feeds)

	cmp := comparator(field)
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if dir == Descending {
			c = -c
		}
		return c < 0
	})
	return out
}

func comparator(field SortField) func(a, b *entity.Feed) int {
	switch field {
	case SortByCategory:
		return func(a, b *entity.Feed) int { return collator.CompareString(a.Category, b.Category) }
	case SortByFeedURL:
		return func(a, b *entity.Feed) int { return collator.CompareString(a.FeedURL, b.FeedURL) }
	case SortByValidity:
		return func(a, b *entity.Feed) int { return a.Validity.Rank() - b.Validity.Rank() }
	case SortByLastChecked:
		return func(a, b *entity.Feed) int { return compareTimes(a.LastCheckedAt, b.LastCheckedAt) }
	case SortByLastUpdated:
		return func(a, b *entity.Feed) int { return compareTimes(a.LastUpdatedAt, b.LastUpdatedAt) }
	default:
		return func(a, b *entity.Feed) int { return collator.CompareString(a.Title, b.Title) }
	}
}

// compareTimes treats nil as the zero time (epoch floor).
func compareTimes(a, b *time.Time) int {
	var ta, tb time.Time
	if a != nil {
		ta = *a
	}
	if b != nil {
		tb = *b
	}
	switch {
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}
