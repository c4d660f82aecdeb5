package feeds

import (
	"encoding/json"
	"errors"
	"net/http"

	"opml-gardener/internal/handler/http/respond"
	sessUC "opml-gardener/internal/usecase/session"
)

type ExportHandler struct{ Svc *sessUC.Session }

// ServeHTTP serializes a subset of the collection and returns the document
// text together with a date-stamped download filename.
func (h ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subset string `json:"subset"`
		Format string `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Format == "" {
		req.Format = string(sessUC.FormatOPML)
	}

	exp, err := h.Svc.ExportCollection(sessUC.Subset(req.Subset), sessUC.Format(req.Format))
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, sessUC.ErrNothingToExport) {
			code = http.StatusUnprocessableEntity
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"content":  exp.Content,
		"filename": exp.Filename,
		"count":    exp.Count,
	})
}
