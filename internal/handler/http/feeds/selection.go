package feeds

import (
	"encoding/json"
	"errors"
	"net/http"

	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type ToggleSelectionHandler struct{ Svc *sessUC.Session }

// ServeHTTP flips the selection mark of one feed.
func (h ToggleSelectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.ID == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("id is required"))
		return
	}

	if err := h.Svc.ToggleSelection(req.ID); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, sessUC.ErrFeedNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SetSelectionHandler struct{ Svc *sessUC.Session }

// ServeHTTP marks or clears the selection. A nil ids field affects the
// whole collection; an explicit list affects only those feeds.
func (h SetSelectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Selected bool     `json:"selected"`
		IDs      []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	h.Svc.SetAllSelection(req.Selected, req.IDs)
	w.WriteHeader(http.StatusNoContent)
}
