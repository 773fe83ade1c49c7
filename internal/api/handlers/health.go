package handlers

import (
	"net/http"
	"time"
)

// HealthHandler provides a minimal liveness check endpoint.
type HealthHandler struct {
	Started time.Time
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]any{
		"status":   "ok",
		"uptime_s": int64(time.Since(h.Started).Seconds()),
	}
	writeJSON(w, r, http.StatusOK, res)
}
