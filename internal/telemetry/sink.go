package telemetry

import (
	"context"
	"errors"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/ports"
)

// MultiSink fans every report out to all of its sinks, even if some fail.
type MultiSink []ports.TelemetrySink

func (m MultiSink) ReadingRecorded(ctx context.Context, r domain.VehicleReading) error {
	var errs []error
	for _, s := range m {
		if err := s.ReadingRecorded(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) EstimateReported(ctx context.Context, e domain.TripEstimate) error {
	var errs []error
	for _, s := range m {
		if err := s.EstimateReported(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
