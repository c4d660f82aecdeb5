package feeds

import (
	"net/http"

	"opml-gardener/internal/collection"
	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type ListHandler struct{ Svc *sessUC.Session }

// ServeHTTP returns the filtered, sorted view of the collection. The query
// parameters become the session's view settings, so a later
// subset=currentView export reproduces exactly what this call returned.
//
// Query parameters: q, category, validity, sort, dir.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	h.Svc.SetFilter(collection.Filter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Validity: q.Get("validity"),
	})
	if sortField := q.Get("sort"); sortField != "" {
		dir := collection.Ascending
		if q.Get("dir") == string(collection.Descending) {
			dir = collection.Descending
		}
		h.Svc.SetSort(collection.SortField(sortField), dir)
	}

	view := h.Svc.View()
	respond.JSON(w, http.StatusOK, map[string]any{
		"feeds": toDTOs(view),
		"total": len(view),
	})
}
