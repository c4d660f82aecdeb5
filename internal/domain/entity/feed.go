// Package entity defines the core domain entities and validation logic for the application.
// It contains the Feed subscription entry, its validity state, and domain-specific errors.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Validity is the tri-state liveness status of a feed URL.
type Validity string

const (
	// ValidityUnknown means the feed URL has never been probed.
	ValidityUnknown Validity = "unknown"
	// ValidityValid means the last probe reached the feed URL.
	ValidityValid Validity = "valid"
	// ValidityInvalid means the last probe failed to reach the feed URL.
	ValidityInvalid Validity = "invalid"
)

// Rank returns a fixed total order over validities for sorting:
// unknown < invalid < valid.
func (v Validity) Rank() int {
	switch v {
	case ValidityInvalid:
		return 1
	case ValidityValid:
		return 2
	default:
		return 0
	}
}

// Feed represents one subscription entry in the working collection.
// A Feed exists only with a non-empty FeedURL; outline nodes without one are
// dropped during decode rather than kept as invalid records.
type Feed struct {
	ID       string
	Title    string
	FeedURL  string
	SiteURL  string
	Category string

	// Tags is an ordered set of free-form labels, de-duplicated on insert.
	Tags []string

	Validity      Validity
	LastCheckedAt *time.Time
	LastUpdatedAt *time.Time

	// Preserved carries any additional attributes seen on the original OPML
	// outline element so re-export does not silently drop unknown fields.
	Preserved map[string]string

	// Selected is transient view state. Every import path resets it to false.
	Selected bool
}

// NewID returns a fresh opaque feed identifier. IDs are never reused,
// even after the record they belonged to is deleted.
func NewID() string {
	return uuid.New().String()
}

// Clone returns a deep copy of the feed. Collection operations copy before
// mutating so history snapshots stay immutable.
func (f *Feed) Clone() *Feed {
	c := *f
	if f.Tags != nil {
		c.Tags = make([]string, len(f.Tags))
		copy(c.Tags, f.Tags)
	}
	if f.Preserved != nil {
		c.Preserved = make(map[string]string, len(f.Preserved))
		for k, v := range f.Preserved {
			c.Preserved[k] = v
		}
	}
	if f.LastCheckedAt != nil {
		t := *f.LastCheckedAt
		c.LastCheckedAt = &t
	}
	if f.LastUpdatedAt != nil {
		t := *f.LastUpdatedAt
		c.LastUpdatedAt = &t
	}
	return &c
}

// AddTags appends the given tags, skipping any already present.
// Insertion order of first occurrences is kept.
func (f *Feed) AddTags(tags ...string) {
	seen := make(map[string]bool, len(f.Tags)+len(tags))
	for _, t := range f.Tags {
		seen[t] = true
	}
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		f.Tags = append(f.Tags, t)
	}
}

// Validate validates the Feed entity fields.
// An empty Validity is normalized to ValidityUnknown for backward compatibility
// with documents written before the field existed.
func (f *Feed) Validate() error {
	if f.FeedURL == "" {
		return &ValidationError{Field: "feedURL", Message: "is required"}
	}
	if f.Validity == "" {
		f.Validity = ValidityUnknown
	}
	switch f.Validity {
	case ValidityUnknown, ValidityValid, ValidityInvalid:
	default:
		return &ValidationError{Field: "validity", Message: "must be unknown, valid, or invalid"}
	}
	return nil
}
