package api

import (
	"net/http"
	"time"

	"trip-telemetry-service/internal/api/handlers"
	"trip-telemetry-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(catalog *services.ReportCatalog, sessions *handlers.SessionHandler, stream http.Handler) http.Handler {
	mux := http.NewServeMux()

	reportHandler := &handlers.ReportHandler{Catalog: catalog}
	healthHandler := &handlers.HealthHandler{Started: time.Now()}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/reports", reportHandler.Reports)
	mux.HandleFunc("/reports/compare", reportHandler.Compare)
	mux.HandleFunc("/sessions", sessions.Run)
	if stream != nil {
		mux.Handle("/telemetry/stream", stream)
	}

	return loggingMiddleware(mux)
}
