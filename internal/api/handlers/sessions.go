package handlers

import (
	"net/http"
	"time"

	"trip-telemetry-service/internal/api/dto"
	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/obs"
	"trip-telemetry-service/internal/ports"
	"trip-telemetry-service/internal/telemetry"
)

const (
	maxSessionDuration = 60 * time.Second
	minInterval        = 10 * time.Millisecond
)

// SessionHandler runs simulation sessions on demand. Each request gets its own
// state and route; reports go to Sink, typically the live stream hub.
type SessionHandler struct {
	Defaults  telemetry.Config
	Waypoints []domain.Waypoint
	Sink      ports.TelemetrySink
}

// Run executes a session synchronously and returns its result. Timing fields
// left at zero use the configured defaults.
func (h *SessionHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SessionRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cfg := h.Defaults
	if req.DurationMs != 0 {
		cfg.Duration = time.Duration(req.DurationMs) * time.Millisecond
	}
	if req.SensorIntervalMs != 0 {
		cfg.SensorInterval = time.Duration(req.SensorIntervalMs) * time.Millisecond
	}
	if req.TripIntervalMs != 0 {
		cfg.TripInterval = time.Duration(req.TripIntervalMs) * time.Millisecond
	}

	if cfg.Duration <= 0 || cfg.Duration > maxSessionDuration {
		writeError(w, r, http.StatusBadRequest, "duration_ms must be between 1 and 60000")
		return
	}
	if cfg.SensorInterval < minInterval || cfg.TripInterval < minInterval {
		writeError(w, r, http.StatusBadRequest, "intervals must be at least 10ms")
		return
	}

	sup, err := telemetry.NewSupervisor(cfg, h.Waypoints, nil, h.Sink)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := sup.Run(r.Context())
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Error("session failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := dto.SessionResponse{
		SpeedHistory:   res.SpeedHistory,
		Estimates:      make([]dto.EstimateResponse, 0, len(res.Estimates)),
		RemainingStops: res.RemainingStops,
		ElapsedMs:      res.Elapsed.Milliseconds(),
		Interrupted:    res.Interrupted,
	}
	if out.SpeedHistory == nil {
		out.SpeedHistory = []float64{}
	}
	for _, e := range res.Estimates {
		est := dto.EstimateResponse{Stop: e.Stop, SpeedKmh: e.SpeedKmh}
		if e.Resolved {
			est.DistanceKm = &e.DistanceKm
			est.ETAMinutes = &e.ETAMinutes
		}
		out.Estimates = append(out.Estimates, est)
	}

	writeJSON(w, r, http.StatusOK, out)
}
