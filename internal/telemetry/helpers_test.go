package telemetry

import (
	"context"
	"sync"
	"time"

	"trip-telemetry-service/internal/domain"
)

type fixedSampler struct {
	reading domain.VehicleReading
}

func (f fixedSampler) Sample(now time.Time) domain.VehicleReading {
	r := f.reading
	r.RecordedAt = now
	return r
}

type recordingSink struct {
	mu        sync.Mutex
	readings  []domain.VehicleReading
	estimates []domain.TripEstimate
}

func (s *recordingSink) ReadingRecorded(_ context.Context, r domain.VehicleReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readings = append(s.readings, r)
	return nil
}

func (s *recordingSink) EstimateReported(_ context.Context, e domain.TripEstimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.estimates = append(s.estimates, e)
	return nil
}

func (s *recordingSink) snapshot() ([]domain.VehicleReading, []domain.TripEstimate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.VehicleReading(nil), s.readings...), append([]domain.TripEstimate(nil), s.estimates...)
}

func waypoint(name string, km float64) domain.Waypoint {
	return domain.Waypoint{Name: name, DistanceKm: &km}
}
