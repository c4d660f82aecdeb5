package feeds

import (
	"encoding/json"
	"errors"
	"net/http"

	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type StatsHandler struct{ Svc *sessUC.Session }

// ServeHTTP returns counts over the whole collection, ignoring the view
// filter.
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Svc.Stats())
}

type ListCategoriesHandler struct{ Svc *sessUC.Session }

// ServeHTTP returns the distinct categories, including registered empty
// ones, lexicographically sorted.
func (h ListCategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string][]string{
		"categories": h.Svc.Categories(),
	})
}

type AddCategoryHandler struct{ Svc *sessUC.Session }

// ServeHTTP registers an empty category so it can be offered as a bulk
// move target before any feed occupies it.
func (h AddCategoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	h.Svc.AddCategory(req.Name)
	w.WriteHeader(http.StatusCreated)
}
