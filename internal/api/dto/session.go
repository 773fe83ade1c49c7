package dto

type SessionRequest struct {
	DurationMs       int64 `json:"duration_ms"`
	SensorIntervalMs int64 `json:"sensor_interval_ms"`
	TripIntervalMs   int64 `json:"trip_interval_ms"`
}

type EstimateResponse struct {
	Stop       string   `json:"stop"`
	DistanceKm *float64 `json:"distance_km"`
	SpeedKmh   float64  `json:"speed_kmh"`
	ETAMinutes *float64 `json:"eta_minutes"`
}

type SessionResponse struct {
	SpeedHistory   []float64          `json:"speed_history"`
	Estimates      []EstimateResponse `json:"estimates"`
	RemainingStops int                `json:"remaining_stops"`
	ElapsedMs      int64              `json:"elapsed_ms"`
	Interrupted    bool               `json:"interrupted"`
}
