package domain

// A named stop on a trip. DistanceKm is nil when the distance to the stop is
// not known; such a stop is still visited but gets no arrival estimate.
type Waypoint struct {
	Name       string
	DistanceKm *float64
}

// Represents the arrival estimate reported for one consumed waypoint.
// Resolved is false when the route carries no distance for Stop; in that case
// DistanceKm and ETAMinutes are zero and must not be reported as numbers.
type TripEstimate struct {
	Stop       string
	DistanceKm float64
	SpeedKmh   float64
	ETAMinutes float64
	Resolved   bool
}
