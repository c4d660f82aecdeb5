package feeds_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opml-gardener/internal/handler/http/feeds"
	sessUC "opml-gardener/internal/usecase/session"
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

func newServer(t *testing.T) (*http.ServeMux, *sessUC.Session) {
	t.Helper()
	svc := sessUC.New(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	feeds.Register(mux, svc)
	return mux, svc
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func importSample(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	rec := doJSON(t, mux, http.MethodPost, "/import", map[string]string{
		"content": sampleOPML,
		"kind":    "opml",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func listFeeds(t *testing.T, mux *http.ServeMux, query string) []map[string]any {
	t.Helper()
	rec := doJSON(t, mux, http.MethodGet, "/feeds"+query, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Feeds []map[string]any `json:"feeds"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Feeds
}

func TestImport(t *testing.T) {
	mux, _ := newServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/import", map[string]string{
		"content": sampleOPML,
		"kind":    "opml",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}

func TestImport_badRequests(t *testing.T) {
	mux, _ := newServer(t)

	rec := doJSON(t, mux, http.MethodPost, "/import", map[string]string{"kind": "opml"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/import", map[string]string{
		"content": "x", "kind": "ini",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/import", map[string]string{
		"content": "<no opml here/>", "kind": "opml",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExport(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)

	rec := doJSON(t, mux, http.MethodPost, "/export", map[string]string{
		"subset": "all", "format": "opml",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Content  string `json:"content"`
		Filename string `json:"filename"`
		Count    int    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
	assert.Contains(t, body.Filename, ".opml")
	assert.Contains(t, body.Content, "<opml version=\"2.0\">")
}

func TestExport_emptySelection(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)

	rec := doJSON(t, mux, http.MethodPost, "/export", map[string]string{
		"subset": "selected", "format": "json",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestList_filterAndSort(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)

	got := listFeeds(t, mux, "?category=Tech&sort=title&dir=desc")
	require.Len(t, got, 2)
	assert.Equal(t, "Hacker News", got[0]["title"])
	assert.Equal(t, "Go Blog", got[1]["title"])
}

func TestList_drivesCurrentViewExport(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)
	listFeeds(t, mux, "?q=standalone")

	rec := doJSON(t, mux, http.MethodPost, "/export", map[string]string{
		"subset": "currentView", "format": "json",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestUpdateAndDelete(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)
	id := listFeeds(t, mux, "")[0]["id"].(string)

	rec := doJSON(t, mux, http.MethodPatch, "/feeds/"+id, map[string]string{
		"title": "Renamed", "category": "Reading",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodPatch, "/feeds/no-such-id", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/feeds/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, listFeeds(t, mux, ""), 2)
}

func TestUpdate_invalidURL(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)
	id := listFeeds(t, mux, "")[0]["id"].(string)

	rec := doJSON(t, mux, http.MethodPatch, "/feeds/"+id, map[string]string{
		"feedUrl": "ftp://nope.example",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkCategoryAndUndo(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)

	var ids []string
	for _, f := range listFeeds(t, mux, "") {
		ids = append(ids, f["id"].(string))
	}

	rec := doJSON(t, mux, http.MethodPost, "/feeds/bulk/category", map[string]any{
		"ids": ids, "category": "Archive",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	for _, f := range listFeeds(t, mux, "") {
		assert.Equal(t, "Archive", f["category"])
	}

	rec = doJSON(t, mux, http.MethodPost, "/history/undo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"canUndo":false,"canRedo":true}`, rec.Body.String())

	rec = doJSON(t, mux, http.MethodPost, "/history/undo", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/history/redo", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDedupe(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)

	rec := doJSON(t, mux, http.MethodPost, "/feeds/dedupe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":0}`, rec.Body.String())
}

func TestSelectionFlow(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)
	id := listFeeds(t, mux, "")[0]["id"].(string)

	rec := doJSON(t, mux, http.MethodPost, "/feeds/selection/toggle", map[string]string{"id": id})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		Selected int `json:"selected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Selected)

	rec = doJSON(t, mux, http.MethodPut, "/feeds/selection", map[string]any{"selected": true})
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCategories(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)

	rec := doJSON(t, mux, http.MethodPost, "/categories", map[string]string{"name": "Reading List"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Categories []string `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Reading List", "Tech", "Uncategorized"}, body.Categories)
}

func TestHistoryState(t *testing.T) {
	mux, _ := newServer(t)
	importSample(t, mux)

	rec := doJSON(t, mux, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"canUndo":false,"canRedo":false}`, rec.Body.String())
}
