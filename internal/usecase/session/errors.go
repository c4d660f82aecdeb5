// Package session provides the editing-session use case: it owns the feed
// collection's undo history behind a single writer lock and exposes the
// import, export, mutation, probing, and query operations the presentation
// layer calls.
package session

import "errors"

// Sentinel errors for session operations.
var (
	// ErrFeedNotFound indicates that the requested feed id is not in the
	// current collection snapshot.
	ErrFeedNotFound = errors.New("feed not found")

	// ErrNothingToExport indicates that the resolved export subset is
	// empty. This is a user-facing condition, not a crash.
	ErrNothingToExport = errors.New("no feeds to export")

	// ErrUnsupportedKind indicates an unknown import document kind.
	// The caller determines the kind (e.g. by file extension); the
	// session does not sniff content.
	ErrUnsupportedKind = errors.New("unsupported import kind")

	// ErrUnsupportedFormat indicates an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
