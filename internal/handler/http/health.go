package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	sessUC "opml-gardener/internal/usecase/session"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports service health. The service holds all state in
// memory, so the only meaningful check is that the session answers and
// what it currently holds.
type HealthHandler struct {
	Svc     *sessUC.Session
	Version string
}

// ServeHTTP returns 200 with collection details, or 503 when no session
// is wired.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	status := "healthy"
	statusCode := http.StatusOK

	if h.Svc == nil {
		checks["session"] = CheckStatus{Status: "unhealthy", Message: "not configured"}
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		stats := h.Svc.Stats()
		checks["session"] = CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"feeds":    stats.Total,
				"can_undo": h.Svc.CanUndo(),
				"can_redo": h.Svc.CanRedo(),
			},
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

// LiveHandler handles liveness probe requests: 200 whenever the process
// can still answer.
type LiveHandler struct{}

func (h LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
