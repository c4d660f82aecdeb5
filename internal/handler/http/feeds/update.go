package feeds

import (
	"encoding/json"
	"errors"
	"net/http"

	"opml-gardener/internal/handler/http/pathutil"
	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type UpdateHandler struct{ Svc *sessUC.Session }

// ServeHTTP applies a partial update to one feed. Absent fields are left
// unchanged; a present feedUrl is validated before the edit is recorded.
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/feeds/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Title    string   `json:"title"`
		FeedURL  string   `json:"feedUrl"`
		SiteURL  string   `json:"siteUrl"`
		Category string   `json:"category"`
		Tags     []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	err = h.Svc.UpdateFeed(id, sessUC.UpdateInput{
		Title:    req.Title,
		FeedURL:  req.FeedURL,
		SiteURL:  req.SiteURL,
		Category: req.Category,
		Tags:     req.Tags,
	})
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, sessUC.ErrFeedNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
