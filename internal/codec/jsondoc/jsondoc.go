// Package jsondoc serializes the feed collection to and from the versioned
// JSON envelope. Unlike OPML, this format carries every field of a record,
// so it is the lossless interchange format between sessions.
package jsondoc

import (
	"encoding/json"
	"fmt"
	"time"

	"opml-gardener/internal/domain/entity"
)

// FormatVersion is the current schema tag written into every export.
const FormatVersion = "1.0"

// Document is the top-level JSON envelope.
type Document struct {
	FormatVersion string   `json:"formatVersion"`
	ExportedAt    string   `json:"exportedAt"`
	Feeds         []Record `json:"feeds"`
}

// Record mirrors entity.Feed with timestamps as RFC 3339 strings.
// Absent timestamps stay absent in the document, never null-coerced
// to a sentinel date.
type Record struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	FeedURL       string            `json:"feedUrl"`
	SiteURL       string            `json:"siteUrl,omitempty"`
	Category      string            `json:"category"`
	Tags          []string          `json:"tags,omitempty"`
	Validity      string            `json:"validity,omitempty"`
	LastCheckedAt string            `json:"lastCheckedAt,omitempty"`
	LastUpdatedAt string            `json:"lastUpdatedAt,omitempty"`
	Preserved     map[string]string `json:"preservedAttributes,omitempty"`
	Selected      bool              `json:"isSelected"`
}

// Encode serializes the collection with the current time as export stamp.
func Encode(feeds []*entity.Feed) (string, error) {
	return EncodeAt(feeds, time.Now())
}

// EncodeAt serializes the collection as an indented JSON document.
// Every field is carried, including ids, preserved attributes, and the
// transient selection flag (import forces the latter back to false).
func EncodeAt(feeds []*entity.Feed, now time.Time) (string, error) {
	doc := Document{
		FormatVersion: FormatVersion,
		ExportedAt:    now.UTC().Format(time.RFC3339Nano),
		Feeds:         make([]Record, 0, len(feeds)),
	}
	for _, f := range feeds {
		doc.Feeds = append(doc.Feeds, toRecord(f))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal feed document: %w", err)
	}
	return string(data), nil
}

func toRecord(f *entity.Feed) Record {
	r := Record{
		ID:        f.ID,
		Title:     f.Title,
		FeedURL:   f.FeedURL,
		SiteURL:   f.SiteURL,
		Category:  f.Category,
		Tags:      f.Tags,
		Validity:  string(f.Validity),
		Preserved: f.Preserved,
		Selected:  f.Selected,
	}
	if f.LastCheckedAt != nil {
		r.LastCheckedAt = f.LastCheckedAt.UTC().Format(time.RFC3339Nano)
	}
	if f.LastUpdatedAt != nil {
		r.LastUpdatedAt = f.LastUpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	return r
}

// Decode parses a JSON export back into a feed collection.
//
// A payload that is not the envelope shape, or that lacks the feeds array,
// fails with ErrInvalidFormat and no partial result. Individual records
// without a feed URL are skipped silently. Unparseable timestamp strings
// are treated as absent rather than failing the whole import. The selection
// flag is reset to false unconditionally; selection is view state.
func Decode(content string) ([]*entity.Feed, error) {
	var doc Document
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFormat, err)
	}
	if doc.Feeds == nil {
		return nil, fmt.Errorf("%w: missing feeds array", entity.ErrInvalidFormat)
	}

	feeds := make([]*entity.Feed, 0, len(doc.Feeds))
	for _, r := range doc.Feeds {
		if r.FeedURL == "" {
			continue
		}
		f := &entity.Feed{
			ID:        r.ID,
			Title:     r.Title,
			FeedURL:   r.FeedURL,
			SiteURL:   r.SiteURL,
			Category:  r.Category,
			Tags:      r.Tags,
			Validity:  entity.Validity(r.Validity),
			Preserved: r.Preserved,
			Selected:  false,
		}
		if f.ID == "" {
			f.ID = entity.NewID()
		}
		if f.Validity == "" {
			f.Validity = entity.ValidityUnknown
		}
		f.LastCheckedAt = parseTime(r.LastCheckedAt)
		f.LastUpdatedAt = parseTime(r.LastUpdatedAt)
		feeds = append(feeds, f)
	}
	return feeds, nil
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}
	return &t
}
