package feeds

import (
	"log/slog"
	"net/http"

	"opml-gardener/internal/handler/http/respond"
	"opml-gardener/internal/observability/logging"
	sessUC "opml-gardener/internal/usecase/session"
)

type ValidateHandler struct{ Svc *sessUC.Session }

// ServeHTTP probes every feed URL in the collection and merges the
// results as one undoable snapshot. The run is tied to the request
// context: when the client disconnects, unprobed feeds are skipped and
// the results gathered so far are still applied.
func (h ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	sum, err := h.Svc.ValidateFeeds(r.Context(), func(completed, total int) {
		if completed == total || completed%10 == 0 {
			logger.Debug("liveness check progress",
				slog.Int("completed", completed),
				slog.Int("total", total))
		}
	})
	if err != nil {
		// The summary still reflects what finished before the interruption.
		respond.JSON(w, http.StatusOK, map[string]any{
			"summary": sum,
			"partial": true,
		})
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"summary": sum})
}
