package ports

import (
	"context"
	"trip-telemetry-service/internal/domain"
)

// Contract for anything that wants to observe a running simulation session.
// Sinks are called outside the shared-state lock; an error from a sink is
// reported by the caller but never stops a worker.
type TelemetrySink interface {
	// Called after a sensor tick has been recorded in the shared state.
	ReadingRecorded(ctx context.Context, r domain.VehicleReading) error
	// Called after the trip worker has consumed a waypoint.
	EstimateReported(ctx context.Context, e domain.TripEstimate) error
}
