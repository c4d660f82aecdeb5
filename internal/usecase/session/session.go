package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"opml-gardener/internal/codec/jsondoc"
	"opml-gardener/internal/codec/opml"
	"opml-gardener/internal/collection"
	"opml-gardener/internal/domain/entity"
	"opml-gardener/internal/history"
	"opml-gardener/internal/infra/prober"
	"opml-gardener/internal/observability/metrics"
)

// Kind identifies an import document kind.
type Kind string

// Format identifies an export document format.
type Format string

// Subset identifies which part of the collection an export covers.
type Subset string

const (
	KindOPML Kind = "opml"
	KindJSON Kind = "json"

	FormatOPML Format = "opml"
	FormatJSON Format = "json"

	SubsetAll         Subset = "all"
	SubsetSelected    Subset = "selected"
	SubsetCurrentView Subset = "currentView"
)

// BatchProber checks feed liveness for a set of URLs. Implemented by
// prober.Prober; abstracted so session tests can stub network behavior.
type BatchProber interface {
	ProbeBatch(ctx context.Context, urls []string, onProgress prober.ProgressFunc) map[string]prober.Result
}

// UpdateInput carries the editable fields of a feed. Empty string fields
// are left unchanged; a nil Tags slice is left unchanged.
type UpdateInput struct {
	Title    string
	FeedURL  string
	SiteURL  string
	Category string
	Tags     []string
}

// Export is the result of an export operation.
type Export struct {
	Content  string
	Filename string
	Count    int
}

// ValidationSummary reports the outcome of a liveness check run.
type ValidationSummary struct {
	Checked int `json:"checked"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Session owns one editing session over a feed collection. All collection
// state lives in an undo history; every recorded mutation produces exactly
// one snapshot. A single mutex serializes access, so a Session is safe for
// concurrent use by HTTP handlers.
type Session struct {
	mu   sync.Mutex
	hist *history.History[[]*entity.Feed]

	// View settings are session state but deliberately outside the undo
	// history: changing a filter is navigation, not an edit.
	filter    collection.Filter
	sortField collection.SortField
	sortDir   collection.Direction

	// extraCategories holds names registered via AddCategory that no feed
	// occupies yet, so they still appear in Categories().
	extraCategories map[string]struct{}

	prober BatchProber
	logger *slog.Logger
	now    func() time.Time
}

// New creates an empty session. The prober may be nil when liveness
// checking is not needed (ValidateFeeds then returns an empty summary).
func New(p BatchProber, logger *slog.Logger) *Session {
	return &Session{
		hist:            history.New([]*entity.Feed{}),
		filter:          collection.Filter{Category: collection.All, Validity: collection.All},
		sortField:       collection.SortByTitle,
		sortDir:         collection.Ascending,
		extraCategories: make(map[string]struct{}),
		prober:          p,
		logger:          logger,
		now:             time.Now,
	}
}

// ImportFromText replaces the whole collection with the feeds decoded from
// content. The operation is all-or-nothing: on a decode error the current
// collection and its history are untouched. A successful import resets the
// history, so it cannot be undone.
func (s *Session) ImportFromText(content string, kind Kind) (int, error) {
	var (
		feeds []*entity.Feed
		err   error
	)
	switch kind {
	case KindOPML:
		feeds, err = opml.Decode(content)
	case KindJSON:
		feeds, err = jsondoc.Decode(content)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if err != nil {
		metrics.RecordImport(string(kind), false)
		return 0, fmt.Errorf("failed to import %s document: %w", kind, err)
	}

	s.mu.Lock()
	s.hist.ResetTo(feeds)
	s.extraCategories = make(map[string]struct{})
	s.updateGauges()
	s.mu.Unlock()

	metrics.RecordImport(string(kind), true)
	s.logger.Info("collection imported", slog.String("kind", string(kind)), slog.Int("count", len(feeds)))
	return len(feeds), nil
}

// ExportCollection serializes the given subset of the collection. The
// returned filename carries the current date, e.g.
// "opml_gardener_export_2026-08-28.opml".
func (s *Session) ExportCollection(subset Subset, format Format) (*Export, error) {
	s.mu.Lock()
	var feeds []*entity.Feed
	switch subset {
	case SubsetAll, "":
		feeds = s.hist.Current()
	case SubsetSelected:
		for _, f := range s.hist.Current() {
			if f.Selected {
				feeds = append(feeds, f)
			}
		}
	case SubsetCurrentView:
		feeds = s.viewLocked()
	default:
		s.mu.Unlock()
		return nil, fmt.Errorf("unknown export subset: %q", subset)
	}
	now := s.now()
	s.mu.Unlock()

	if len(feeds) == 0 {
		metrics.RecordExport(string(format), false)
		return nil, ErrNothingToExport
	}

	var (
		content string
		ext     string
		err     error
	)
	switch format {
	case FormatOPML:
		content = opml.EncodeAt(feeds, now)
		ext = "opml"
	case FormatJSON:
		content, err = jsondoc.EncodeAt(feeds, now)
		ext = "json"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		metrics.RecordExport(string(format), false)
		return nil, fmt.Errorf("failed to export collection: %w", err)
	}

	metrics.RecordExport(string(format), true)
	return &Export{
		Content:  content,
		Filename: fmt.Sprintf("opml_gardener_export_%s.%s", now.Format("2006-01-02"), ext),
		Count:    len(feeds),
	}, nil
}

// UpdateFeed applies in to the feed with the given id and records one
// snapshot. A non-empty FeedURL is validated before anything is recorded.
func (s *Session) UpdateFeed(id string, in UpdateInput) error {
	if in.FeedURL != "" {
		if err := entity.ValidateURL(in.FeedURL); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.containsLocked(id) {
		return fmt.Errorf("%w: %s", ErrFeedNotFound, id)
	}
	s.pushLocked(func(feeds []*entity.Feed) []*entity.Feed {
		out, _ := collection.Update(feeds, id, func(f *entity.Feed) {
			if in.Title != "" {
				f.Title = in.Title
			}
			if in.FeedURL != "" {
				f.FeedURL = in.FeedURL
			}
			if in.SiteURL != "" {
				f.SiteURL = in.SiteURL
			}
			if in.Category != "" {
				f.Category = in.Category
			}
			if in.Tags != nil {
				f.Tags = nil
				f.AddTags(in.Tags...)
			}
		})
		return out
	})
	return nil
}

// DeleteFeed removes one feed and records a snapshot.
func (s *Session) DeleteFeed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.containsLocked(id) {
		return fmt.Errorf("%w: %s", ErrFeedNotFound, id)
	}
	s.pushLocked(func(feeds []*entity.Feed) []*entity.Feed {
		out, _ := collection.Delete(feeds, id)
		return out
	})
	return nil
}

// DeleteFeeds removes every feed whose id is listed and reports how many
// were removed. Unknown ids are ignored; nothing is recorded when the
// collection is unchanged.
func (s *Session) DeleteFeeds(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	after, removed := collection.DeleteMany(s.hist.Current(), ids)
	if removed == 0 {
		return 0
	}
	s.pushLocked(func([]*entity.Feed) []*entity.Feed { return after })
	return removed
}

// Dedupe removes feeds whose feed URL exactly matches an earlier feed's
// URL, keeping the first occurrence. Returns the number removed.
func (s *Session) Dedupe() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deduped, removed := collection.Dedupe(s.hist.Current())
	if removed == 0 {
		return 0
	}
	s.pushLocked(func([]*entity.Feed) []*entity.Feed { return deduped })
	s.logger.Info("collection deduplicated", slog.Int("removed", removed))
	return removed
}

// BulkSetCategory moves the listed feeds into category and records one
// snapshot covering the whole move.
func (s *Session) BulkSetCategory(ids []string, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushLocked(func(feeds []*entity.Feed) []*entity.Feed {
		return collection.BulkSetCategory(feeds, ids, category)
	})
	s.pruneExtraLocked()
}

// BulkAddTags appends tags to the listed feeds, skipping duplicates
// per feed, and records one snapshot.
func (s *Session) BulkAddTags(ids []string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushLocked(func(feeds []*entity.Feed) []*entity.Feed {
		return collection.BulkAddTags(feeds, ids, tags)
	})
}

// ToggleSelection flips one feed's selection mark.
func (s *Session) ToggleSelection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.containsLocked(id) {
		return fmt.Errorf("%w: %s", ErrFeedNotFound, id)
	}
	s.pushLocked(func(feeds []*entity.Feed) []*entity.Feed {
		return collection.ToggleSelection(feeds, id)
	})
	return nil
}

// SetAllSelection marks or clears selection. With a nil subset every feed
// is affected; otherwise only the listed ids.
func (s *Session) SetAllSelection(selected bool, subset []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushLocked(func(feeds []*entity.Feed) []*entity.Feed {
		return collection.SetAllSelection(feeds, selected, subset)
	})
}

// AddCategory registers an empty category so it shows up in Categories()
// before any feed is moved into it.
func (s *Session) AddCategory(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extraCategories[name] = struct{}{}
}

// Undo steps the collection back one snapshot. Returns false at the
// oldest snapshot.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.hist.Undo()
	if ok {
		s.updateGauges()
	}
	return ok
}

// Redo steps the collection forward one snapshot. Returns false at the
// newest snapshot.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.hist.Redo()
	if ok {
		s.updateGauges()
	}
	return ok
}

// CanUndo reports whether an older snapshot exists.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether a newer snapshot exists.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.CanRedo()
}

// SetFilter replaces the session's view filter. Not recorded in history.
func (s *Session) SetFilter(f collection.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Category == "" {
		f.Category = collection.All
	}
	if f.Validity == "" {
		f.Validity = collection.All
	}
	s.filter = f
}

// SetSort replaces the session's sort settings. Not recorded in history.
func (s *Session) SetSort(field collection.SortField, dir collection.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortField = field
	s.sortDir = dir
}

// View returns the collection with the session's filter and sort applied.
// The returned slice is owned by the caller; the records are shared and
// must be treated as read-only.
func (s *Session) View() []*entity.Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Filter returns the session's current view filter.
func (s *Session) Filter() collection.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// CurrentCollection returns a copy of the current snapshot's slice.
func (s *Session) CurrentCollection() []*entity.Feed {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.hist.Current()
	out := make([]*entity.Feed, len(cur))
	copy(out, cur)
	return out
}

// Categories returns the distinct categories present in the collection,
// plus any registered empty categories, lexicographically sorted.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	derived := collection.Categories(s.hist.Current())
	if len(s.extraCategories) == 0 {
		return derived
	}
	seen := make(map[string]struct{}, len(derived)+len(s.extraCategories))
	for _, c := range derived {
		seen[c] = struct{}{}
	}
	for c := range s.extraCategories {
		if _, ok := seen[c]; !ok {
			derived = append(derived, c)
			seen[c] = struct{}{}
		}
	}
	sort.Strings(derived)
	return derived
}

// Stats returns counts over the whole collection, ignoring the view filter.
func (s *Session) Stats() collection.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collection.DeriveStats(s.hist.Current())
}

// ValidateFeeds probes every feed URL in the current collection and merges
// the results into a single history snapshot, so one undo reverts the whole
// run. The probe itself runs without the session lock; feeds added or
// removed during the run keep their state.
func (s *Session) ValidateFeeds(ctx context.Context, onProgress prober.ProgressFunc) (ValidationSummary, error) {
	s.mu.Lock()
	snapshot := s.hist.Current()
	urls := make([]string, 0, len(snapshot))
	seen := make(map[string]struct{}, len(snapshot))
	for _, f := range snapshot {
		if _, ok := seen[f.FeedURL]; ok {
			continue
		}
		seen[f.FeedURL] = struct{}{}
		urls = append(urls, f.FeedURL)
	}
	s.mu.Unlock()

	if len(urls) == 0 || s.prober == nil {
		return ValidationSummary{}, nil
	}

	results := s.prober.ProbeBatch(ctx, urls, onProgress)
	checkedAt := s.now()

	var sum ValidationSummary
	s.mu.Lock()
	s.pushLocked(func(feeds []*entity.Feed) []*entity.Feed {
		out := make([]*entity.Feed, len(feeds))
		for i, f := range feeds {
			res, ok := results[f.FeedURL]
			if !ok {
				out[i] = f
				continue
			}
			c := f.Clone()
			ts := checkedAt
			c.LastCheckedAt = &ts
			if res.Reachable {
				c.Validity = entity.ValidityValid
				sum.Valid++
			} else {
				c.Validity = entity.ValidityInvalid
				sum.Invalid++
			}
			if res.LastUpdatedAt != nil {
				c.LastUpdatedAt = res.LastUpdatedAt
			}
			sum.Checked++
			out[i] = c
		}
		return out
	})
	s.mu.Unlock()

	s.logger.Info("liveness check finished",
		slog.Int("checked", sum.Checked),
		slog.Int("valid", sum.Valid),
		slog.Int("invalid", sum.Invalid),
	)
	if err := ctx.Err(); err != nil {
		// Partial results are already merged; report the interruption.
		return sum, fmt.Errorf("liveness check interrupted: %w", err)
	}
	return sum, nil
}

func (s *Session) viewLocked() []*entity.Feed {
	filtered := collection.Apply(s.hist.Current(), s.filter)
	return collection.SortBy(filtered, s.sortField, s.sortDir)
}

func (s *Session) containsLocked(id string) bool {
	for _, f := range s.hist.Current() {
		if f.ID == id {
			return true
		}
	}
	return false
}

// pushLocked records one snapshot and refreshes the collection gauges.
// Callers must hold s.mu.
func (s *Session) pushLocked(mutate func([]*entity.Feed) []*entity.Feed) {
	s.hist.Push(mutate)
	s.updateGauges()
}

// pruneExtraLocked drops registered empty categories that a feed now
// occupies; from then on the feed itself keeps the name alive.
func (s *Session) pruneExtraLocked() {
	if len(s.extraCategories) == 0 {
		return
	}
	for _, f := range s.hist.Current() {
		delete(s.extraCategories, f.Category)
	}
}

func (s *Session) updateGauges() {
	metrics.UpdateCollectionGauges(len(s.hist.Current()), s.hist.Len())
}
