package feeds

import (
	"encoding/json"
	"errors"
	"net/http"

	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type ImportHandler struct{ Svc *sessUC.Session }

// ServeHTTP replaces the collection with the feeds decoded from the
// request body. The body carries the raw document text plus its kind,
// because OPML arrives as an XML string inside the JSON envelope.
func (h ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Kind    string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Content == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("content is required"))
		return
	}

	count, err := h.Svc.ImportFromText(req.Content, sessUC.Kind(req.Kind))
	if err != nil {
		code := http.StatusUnprocessableEntity
		if errors.Is(err, sessUC.ErrUnsupportedKind) {
			code = http.StatusBadRequest
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int{"count": count})
}
