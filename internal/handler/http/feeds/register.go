package feeds

import (
	"net/http"

	sessUC "opml-gardener/internal/usecase/session"
)

// Register registers all collection-editing HTTP handlers with the given
// mux: document import/export, feed queries and mutations, bulk
// operations, undo history, and liveness validation.
func Register(mux *http.ServeMux, svc *sessUC.Session) {
	mux.Handle("POST   /import", ImportHandler{svc})
	mux.Handle("POST   /export", ExportHandler{svc})

	mux.Handle("GET    /feeds", ListHandler{svc})
	mux.Handle("PATCH  /feeds/", UpdateHandler{svc})
	mux.Handle("DELETE /feeds/", DeleteHandler{svc})

	mux.Handle("POST   /feeds/bulk/delete", BulkDeleteHandler{svc})
	mux.Handle("POST   /feeds/bulk/category", BulkCategoryHandler{svc})
	mux.Handle("POST   /feeds/bulk/tags", BulkTagsHandler{svc})
	mux.Handle("POST   /feeds/dedupe", DedupeHandler{svc})

	mux.Handle("POST   /feeds/selection/toggle", ToggleSelectionHandler{svc})
	mux.Handle("PUT    /feeds/selection", SetSelectionHandler{svc})

	mux.Handle("GET    /history", HistoryStateHandler{svc})
	mux.Handle("POST   /history/undo", UndoHandler{svc})
	mux.Handle("POST   /history/redo", RedoHandler{svc})

	mux.Handle("POST   /validate", ValidateHandler{svc})

	mux.Handle("GET    /stats", StatsHandler{svc})
	mux.Handle("GET    /categories", ListCategoriesHandler{svc})
	mux.Handle("POST   /categories", AddCategoryHandler{svc})
}
