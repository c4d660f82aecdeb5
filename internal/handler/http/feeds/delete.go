package feeds

import (
	"errors"
	"net/http"

	"opml-gardener/internal/handler/http/pathutil"
	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type DeleteHandler struct{ Svc *sessUC.Session }

// ServeHTTP removes one feed from the collection.
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/feeds/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Svc.DeleteFeed(id); err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, sessUC.ErrFeedNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
