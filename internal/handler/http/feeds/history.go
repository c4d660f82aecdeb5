package feeds

import (
	"net/http"

	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type UndoHandler struct{ Svc *sessUC.Session }

// ServeHTTP steps the collection back one snapshot. At the oldest
// snapshot it returns 409 rather than silently doing nothing, so the
// client can keep its undo button state honest.
func (h UndoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.Svc.Undo() {
		respond.JSON(w, http.StatusConflict, map[string]string{"error": "nothing to undo"})
		return
	}
	respond.JSON(w, http.StatusOK, historyStateDTO{
		CanUndo: h.Svc.CanUndo(),
		CanRedo: h.Svc.CanRedo(),
	})
}

type RedoHandler struct{ Svc *sessUC.Session }

// ServeHTTP steps the collection forward one snapshot.
func (h RedoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.Svc.Redo() {
		respond.JSON(w, http.StatusConflict, map[string]string{"error": "nothing to redo"})
		return
	}
	respond.JSON(w, http.StatusOK, historyStateDTO{
		CanUndo: h.Svc.CanUndo(),
		CanRedo: h.Svc.CanRedo(),
	})
}

type HistoryStateHandler struct{ Svc *sessUC.Session }

// ServeHTTP reports whether undo and redo are currently possible.
func (h HistoryStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, historyStateDTO{
		CanUndo: h.Svc.CanUndo(),
		CanRedo: h.Svc.CanRedo(),
	})
}
