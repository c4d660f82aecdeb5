// Package pathutil provides URL path helpers for the HTTP handlers:
// feed ID extraction and path normalization for metric labels.
package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidID is returned when the ID segment of a URL path is missing
// or malformed.
var ErrInvalidID = errors.New("invalid id")

// ExtractID returns the feed ID that follows prefix in path. Feed IDs are
// opaque strings (usually UUIDs, but imported documents may carry their
// own), so the only structural requirements are that the segment is
// non-empty and contains no further slash.
//
//	id, err := ExtractID("/feeds/3f2a…", "/feeds/")
func ExtractID(path, prefix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", ErrInvalidID
	}
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", ErrInvalidID
	}
	return id, nil
}
