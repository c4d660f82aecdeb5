// Package history provides a generic linear undo/redo manager over immutable
// value snapshots. Every recorded mutation appends a full snapshot; undo and
// redo only move a cursor. There is no branching: pushing after an undo
// discards the redone-away future.
package history

// DefaultLimit is the maximum number of retained snapshots.
// When exceeded, the oldest snapshots are evicted from the front.
const DefaultLimit = 50

// History holds an ordered sequence of snapshots of T plus a cursor.
// The cursor is always a valid index into the sequence.
//
// History is not safe for concurrent use; callers serialize access
// (the session owns one writer lock per History instance).
type History[T any] struct {
	snapshots []T
	cursor    int
	limit     int
}

// New creates a History seeded with a single initial snapshot and the
// default retention limit.
func New[T any](initial T) *History[T] {
	return NewWithLimit(initial, DefaultLimit)
}

// NewWithLimit creates a History with an explicit retention limit.
// A limit below 1 is treated as 1.
func NewWithLimit[T any](initial T, limit int) *History[T] {
	if limit < 1 {
		limit = 1
	}
	return &History[T]{snapshots: []T{initial}, cursor: 0, limit: limit}
}

// Current returns the snapshot at the cursor.
func (h *History[T]) Current() T {
	return h.snapshots[h.cursor]
}

// Push computes the next snapshot from the current one, truncates any redo
// future beyond the cursor, and appends it. If the sequence would exceed the
// retention limit, the oldest snapshots are evicted; eviction never changes
// which snapshot is current.
func (h *History[T]) Push(mutate func(T) T) T {
	next := mutate(h.Current())

	h.snapshots = append(h.snapshots[:h.cursor+1], next)
	h.cursor = len(h.snapshots) - 1

	if over := len(h.snapshots) - h.limit; over > 0 {
		h.snapshots = h.snapshots[over:]
		h.cursor -= over
	}
	return next
}

// Undo moves the cursor one snapshot back. It reports whether it moved;
// at the oldest retained snapshot it is a no-op.
func (h *History[T]) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor one snapshot forward. It reports whether it moved;
// with no future snapshots it is a no-op.
func (h *History[T]) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.cursor++
	return true
}

// CanUndo reports whether at least one older snapshot is retained.
func (h *History[T]) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether a future snapshot exists beyond the cursor.
func (h *History[T]) CanRedo() bool {
	return h.cursor < len(h.snapshots)-1
}

// ResetTo replaces the entire sequence with a single snapshot and cursor 0,
// deliberately discarding all prior history. Used on fresh import.
func (h *History[T]) ResetTo(value T) {
	h.snapshots = []T{value}
	h.cursor = 0
}

// Len returns the number of retained snapshots.
func (h *History[T]) Len() int {
	return len(h.snapshots)
}
