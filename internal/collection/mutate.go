package collection

import (
	"opml-gardener/internal/domain/entity"
)

// Dedupe keeps the first occurrence (in current order) of each distinct
// feed URL and drops later ones. Comparison is exact string equality:
// trailing slashes, query order, and case differences are deliberately
// not normalized. Returns the new collection and the number removed.
func Dedupe(feeds []*entity.Feed) ([]*entity.Feed, int) {
	seen := make(map[string]bool, len(feeds))
	out := make([]*entity.Feed, 0, len(feeds))
	for _, f := range feeds {
		if seen[f.FeedURL] {
			continue
		}
		seen[f.FeedURL] = true
		out = append(out, f)
	}
	return out, len(feeds) - len(out)
}

// Update applies fn to a clone of the feed with the given id and returns
// the new collection. Reports whether the id was found.
func Update(feeds []*entity.Feed, id string, fn func(*entity.Feed)) ([]*entity.Feed, bool) {
	out := make([]*entity.Feed, len(feeds))
	found := false
	for i, f := range feeds {
		if f.ID == id {
			c := f.Clone()
			fn(c)
			out[i] = c
			found = true
			continue
		}
		out[i] = f
	}
	return out, found
}

// Delete removes the feed with the given id. Reports whether it existed.
func Delete(feeds []*entity.Feed, id string) ([]*entity.Feed, bool) {
	out := make([]*entity.Feed, 0, len(feeds))
	found := false
	for _, f := range feeds {
		if f.ID == id {
			found = true
			continue
		}
		out = append(out, f)
	}
	return out, found
}

// DeleteMany removes every feed whose id is in ids. Unknown ids are ignored.
// Returns the new collection and the number removed.
func DeleteMany(feeds []*entity.Feed, ids []string) ([]*entity.Feed, int) {
	drop := idSet(ids)
	out := make([]*entity.Feed, 0, len(feeds))
	for _, f := range feeds {
		if drop[f.ID] {
			continue
		}
		out = append(out, f)
	}
	return out, len(feeds) - len(out)
}

// BulkSetCategory sets the category on every feed whose id is in ids.
// Unmatched ids are ignored, not errors.
func BulkSetCategory(feeds []*entity.Feed, ids []string, category string) []*entity.Feed {
	match := idSet(ids)
	out := make([]*entity.Feed, len(feeds))
	for i, f := range feeds {
		if match[f.ID] {
			c := f.Clone()
			c.Category = category
			out[i] = c
			continue
		}
		out[i] = f
	}
	return out
}

// BulkAddTags appends tags to every feed whose id is in ids,
// de-duplicating per record. Unmatched ids are ignored.
func BulkAddTags(feeds []*entity.Feed, ids []string, tags []string) []*entity.Feed {
	match := idSet(ids)
	out := make([]*entity.Feed, len(feeds))
	for i, f := range feeds {
		if match[f.ID] {
			c := f.Clone()
			c.AddTags(tags...)
			out[i] = c
			continue
		}
		out[i] = f
	}
	return out
}

// ToggleSelection flips the transient selection flag of one feed.
func ToggleSelection(feeds []*entity.Feed, id string) []*entity.Feed {
	out, _ := Update(feeds, id, func(f *entity.Feed) {
		f.Selected = !f.Selected
	})
	return out
}

// SetAllSelection sets the selection flag on every feed, or only on the
// given id subset when one is provided. The caller passes the currently
// visible ids when the intent is "select visible only".
func SetAllSelection(feeds []*entity.Feed, selected bool, subset []string) []*entity.Feed {
	var match map[string]bool
	if subset != nil {
		match = idSet(subset)
	}
	out := make([]*entity.Feed, len(feeds))
	for i, f := range feeds {
		if match != nil && !match[f.ID] {
			out[i] = f
			continue
		}
		if f.Selected == selected {
			out[i] = f
			continue
		}
		c := f.Clone()
		c.Selected = selected
		out[i] = c
	}
	return out
}

func idSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
