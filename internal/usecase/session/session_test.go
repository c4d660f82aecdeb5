package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opml-gardener/internal/collection"
	"opml-gardener/internal/domain/entity"
	"opml-gardener/internal/infra/prober"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body>
    <outline text="Tech">
      <outline text="Go Blog" type="rss" xmlUrl="https://go.dev/blog/feed.atom" htmlUrl="https://go.dev/blog"/>
      <outline text="Hacker News" type="rss" xmlUrl="https://news.ycombinator.com/rss"/>
    </outline>
    <outline text="Standalone" type="rss" xmlUrl="https://standalone.example/rss"/>
  </body>
</opml>`

func newTestSession(t *testing.T, p BatchProber) *Session {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(p, logger)
	s.now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func importSample(t *testing.T, s *Session) []*entity.Feed {
	t.Helper()
	count, err := s.ImportFromText(sampleOPML, KindOPML)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	return s.CurrentCollection()
}

func TestImportFromText_opml(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)

	categories := make(map[string]int)
	for _, f := range feeds {
		categories[f.Category]++
	}
	assert.Equal(t, 2, categories["Tech"])
	assert.Equal(t, 1, categories["Uncategorized"])
	assert.False(t, s.CanUndo(), "import must reset history")
}

func TestImportFromText_invalidDocumentLeavesStateIntact(t *testing.T) {
	s := newTestSession(t, nil)
	importSample(t, s)

	_, err := s.ImportFromText("<not opml>", KindOPML)
	require.Error(t, err)
	assert.Len(t, s.CurrentCollection(), 3)
}

func TestImportFromText_unsupportedKind(t *testing.T) {
	s := newTestSession(t, nil)
	_, err := s.ImportFromText("{}", Kind("yaml"))
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestExportCollection_filenameAndRoundTripCount(t *testing.T) {
	s := newTestSession(t, nil)
	importSample(t, s)

	exp, err := s.ExportCollection(SubsetAll, FormatOPML)
	require.NoError(t, err)
	assert.Equal(t, "opml_gardener_export_2025-06-15.opml", exp.Filename)
	assert.Equal(t, 3, exp.Count)
	assert.Contains(t, exp.Content, `xmlUrl="https://go.dev/blog/feed.atom"`)

	jsonExp, err := s.ExportCollection(SubsetAll, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "opml_gardener_export_2025-06-15.json", jsonExp.Filename)
}

func TestExportCollection_selectedSubset(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)
	require.NoError(t, s.ToggleSelection(feeds[0].ID))

	exp, err := s.ExportCollection(SubsetSelected, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 1, exp.Count)
}

func TestExportCollection_emptySubset(t *testing.T) {
	s := newTestSession(t, nil)
	importSample(t, s)

	_, err := s.ExportCollection(SubsetSelected, FormatOPML)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestExportCollection_currentViewSubset(t *testing.T) {
	s := newTestSession(t, nil)
	importSample(t, s)
	s.SetFilter(collection.Filter{Category: "Tech"})

	exp, err := s.ExportCollection(SubsetCurrentView, FormatOPML)
	require.NoError(t, err)
	assert.Equal(t, 2, exp.Count)
}

func TestUpdateFeed(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)
	id := feeds[0].ID

	err := s.UpdateFeed(id, UpdateInput{Title: "Renamed", Category: "Reading"})
	require.NoError(t, err)

	var updated *entity.Feed
	for _, f := range s.CurrentCollection() {
		if f.ID == id {
			updated = f
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "Reading", updated.Category)
	assert.Equal(t, feeds[0].FeedURL, updated.FeedURL, "unset fields stay")
	assert.True(t, s.CanUndo())
}

func TestUpdateFeed_rejectsInvalidURLBeforeRecording(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)

	err := s.UpdateFeed(feeds[0].ID, UpdateInput{FeedURL: "ftp://bad.example"})
	require.Error(t, err)
	var vErr *entity.ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.False(t, s.CanUndo(), "failed update must not create a snapshot")
}

func TestUpdateFeed_notFound(t *testing.T) {
	s := newTestSession(t, nil)
	importSample(t, s)

	err := s.UpdateFeed("missing-id", UpdateInput{Title: "x"})
	assert.ErrorIs(t, err, ErrFeedNotFound)
	assert.False(t, s.CanUndo())
}

func TestDeleteFeed_andUndo(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)

	require.NoError(t, s.DeleteFeed(feeds[1].ID))
	assert.Len(t, s.CurrentCollection(), 2)

	require.True(t, s.Undo())
	assert.Len(t, s.CurrentCollection(), 3)
	require.True(t, s.Redo())
	assert.Len(t, s.CurrentCollection(), 2)
}

func TestDeleteFeeds_unchangedCollectionNotRecorded(t *testing.T) {
	s := newTestSession(t, nil)
	importSample(t, s)

	assert.Equal(t, 0, s.DeleteFeeds([]string{"nope"}))
	assert.False(t, s.CanUndo())

	ids := []string{s.CurrentCollection()[0].ID, s.CurrentCollection()[2].ID}
	assert.Equal(t, 2, s.DeleteFeeds(ids))
	assert.Len(t, s.CurrentCollection(), 1)
}

func TestDedupe_singleSnapshot(t *testing.T) {
	s := newTestSession(t, nil)
	doc := strings.Replace(sampleOPML,
		`xmlUrl="https://standalone.example/rss"`,
		`xmlUrl="https://go.dev/blog/feed.atom"`, 1)
	count, err := s.ImportFromText(doc, KindOPML)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	assert.Equal(t, 1, s.Dedupe())
	assert.Len(t, s.CurrentCollection(), 2)

	require.True(t, s.Undo())
	assert.Len(t, s.CurrentCollection(), 3)

	// Nothing left to remove: no snapshot either.
	s.Redo()
	assert.Equal(t, 0, s.Dedupe())
	assert.True(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestBulkSetCategory_oneUndoRevertsWholeMove(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)
	ids := []string{feeds[0].ID, feeds[1].ID, feeds[2].ID}

	s.BulkSetCategory(ids, "Archive")
	for _, f := range s.CurrentCollection() {
		assert.Equal(t, "Archive", f.Category)
	}

	require.True(t, s.Undo())
	cats := s.Categories()
	assert.Contains(t, cats, "Tech")
	assert.NotContains(t, cats, "Archive")
}

func TestBulkAddTags(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)

	s.BulkAddTags([]string{feeds[0].ID}, []string{"daily", "go"})
	s.BulkAddTags([]string{feeds[0].ID}, []string{"go", "news"})

	for _, f := range s.CurrentCollection() {
		if f.ID == feeds[0].ID {
			assert.Equal(t, []string{"daily", "go", "news"}, f.Tags)
		}
	}
}

func TestSelection(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)

	require.NoError(t, s.ToggleSelection(feeds[0].ID))
	assert.Equal(t, 1, s.Stats().Selected)

	s.SetAllSelection(true, nil)
	assert.Equal(t, 3, s.Stats().Selected)

	s.SetAllSelection(false, []string{feeds[0].ID})
	assert.Equal(t, 2, s.Stats().Selected)

	assert.ErrorIs(t, s.ToggleSelection("missing"), ErrFeedNotFound)
}

func TestViewSettingsAreNotRecorded(t *testing.T) {
	s := newTestSession(t, nil)
	importSample(t, s)

	s.SetFilter(collection.Filter{Query: "go"})
	s.SetSort(collection.SortByCategory, collection.Descending)
	assert.False(t, s.CanUndo())

	view := s.View()
	require.Len(t, view, 1)
	assert.Equal(t, "Go Blog", view[0].Title)
}

func TestCategories_registeredEmptyCategory(t *testing.T) {
	s := newTestSession(t, nil)
	feeds := importSample(t, s)

	s.AddCategory("Reading List")
	assert.Contains(t, s.Categories(), "Reading List")

	// Once occupied, the feed keeps the name alive; once the occupant
	// moves away again, the name is gone.
	s.BulkSetCategory([]string{feeds[0].ID}, "Reading List")
	assert.Contains(t, s.Categories(), "Reading List")
	s.BulkSetCategory([]string{feeds[0].ID}, "Tech")
	assert.NotContains(t, s.Categories(), "Reading List")
}

type stubProber struct {
	results map[string]prober.Result
	calls   int
}

func (p *stubProber) ProbeBatch(_ context.Context, urls []string, onProgress prober.ProgressFunc) map[string]prober.Result {
	p.calls++
	out := make(map[string]prober.Result, len(urls))
	for i, u := range urls {
		out[u] = p.results[u]
		if onProgress != nil {
			onProgress(i+1, len(urls))
		}
	}
	return out
}

func TestValidateFeeds_mergesIntoSingleSnapshot(t *testing.T) {
	updated := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	stub := &stubProber{results: map[string]prober.Result{
		"https://go.dev/blog/feed.atom":    {Reachable: true, HTTPStatus: 200, LastUpdatedAt: &updated},
		"https://news.ycombinator.com/rss": {Reachable: true, HTTPStatus: 200},
		"https://standalone.example/rss":   {Reachable: false, HTTPStatus: 404, ErrorReason: "HTTP 404"},
	}}
	s := newTestSession(t, stub)
	importSample(t, s)

	sum, err := s.ValidateFeeds(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ValidationSummary{Checked: 3, Valid: 2, Invalid: 1}, sum)

	stats := s.Stats()
	assert.Equal(t, 2, stats.Valid)
	assert.Equal(t, 1, stats.Invalid)
	assert.Equal(t, 0, stats.Unchecked)

	for _, f := range s.CurrentCollection() {
		require.NotNil(t, f.LastCheckedAt)
		if f.FeedURL == "https://go.dev/blog/feed.atom" {
			require.NotNil(t, f.LastUpdatedAt)
			assert.True(t, f.LastUpdatedAt.Equal(updated))
		}
	}

	// The whole run is one snapshot: a single undo clears every mark.
	require.True(t, s.Undo())
	assert.Equal(t, 3, s.Stats().Unchecked)
}

func TestValidateFeeds_emptyCollection(t *testing.T) {
	stub := &stubProber{}
	s := newTestSession(t, stub)

	sum, err := s.ValidateFeeds(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, ValidationSummary{}, sum)
	assert.Equal(t, 0, stub.calls, "no probe for an empty collection")
}

func TestValidateFeeds_progressReachesCaller(t *testing.T) {
	stub := &stubProber{results: map[string]prober.Result{}}
	s := newTestSession(t, stub)
	importSample(t, s)

	var last int
	_, err := s.ValidateFeeds(context.Background(), func(completed, total int) {
		last = completed
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, last)
}
