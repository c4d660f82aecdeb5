package feeds

import (
	"encoding/json"
	"errors"
	"net/http"

	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type BulkDeleteHandler struct{ Svc *sessUC.Session }

// ServeHTTP removes every listed feed in a single undoable step.
// Unknown ids are ignored.
func (h BulkDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.IDs) == 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("ids are required"))
		return
	}

	removed := h.Svc.DeleteFeeds(req.IDs)
	respond.JSON(w, http.StatusOK, map[string]int{"removed": removed})
}

type BulkCategoryHandler struct{ Svc *sessUC.Session }

// ServeHTTP moves every listed feed into one category as a single
// undoable step.
func (h BulkCategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs      []string `json:"ids"`
		Category string   `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.IDs) == 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("ids are required"))
		return
	}
	if req.Category == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("category is required"))
		return
	}

	h.Svc.BulkSetCategory(req.IDs, req.Category)
	w.WriteHeader(http.StatusNoContent)
}

type BulkTagsHandler struct{ Svc *sessUC.Session }

// ServeHTTP appends tags to every listed feed, skipping tags a feed
// already carries.
func (h BulkTagsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs  []string `json:"ids"`
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.IDs) == 0 || len(req.Tags) == 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("ids and tags are required"))
		return
	}

	h.Svc.BulkAddTags(req.IDs, req.Tags)
	w.WriteHeader(http.StatusNoContent)
}

type DedupeHandler struct{ Svc *sessUC.Session }

// ServeHTTP removes exact duplicate feed URLs, keeping the first
// occurrence of each.
func (h DedupeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	removed := h.Svc.Dedupe()
	respond.JSON(w, http.StatusOK, map[string]int{"removed": removed})
}
