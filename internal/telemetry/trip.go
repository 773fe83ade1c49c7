package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/ports"
)

// SpeedFloorKmh replaces a zero or negative shared speed before dividing.
const SpeedFloorKmh = 1.0

var ErrUnresolvedDistance = errors.New("no distance for waypoint")

// ETAMinutes returns the travel time in minutes for distanceKm at speedKmh.
// Speeds at or below zero are treated as SpeedFloorKmh.
func ETAMinutes(distanceKm, speedKmh float64) float64 {
	return distanceKm / clampSpeed(speedKmh) * 60
}

func clampSpeed(speedKmh float64) float64 {
	if speedKmh <= 0 {
		return SpeedFloorKmh
	}
	return speedKmh
}

// TripWorker consumes the route one waypoint every Interval and reports an
// arrival estimate based on the current shared speed.
type TripWorker struct {
	State    *State
	Sink     ports.TelemetrySink
	Interval time.Duration

	ticks     atomic.Int64
	estimates []domain.TripEstimate
}

// Run loops until ctx is cancelled or the route is exhausted. Both are normal
// terminations.
func (w *TripWorker) Run(ctx context.Context) error {
	sinkCtx := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			return nil
		}

		stop, ok := w.State.NextWaypoint()
		if !ok {
			log.Debug("trip: route exhausted")
			return nil
		}

		est, err := w.estimate(stop)
		if err != nil {
			log.WithField("stop", stop).WithError(err).Warn("trip: no arrival estimate")
		}
		w.estimates = append(w.estimates, est)
		w.ticks.Inc()

		if w.Sink != nil {
			if err := w.Sink.EstimateReported(sinkCtx, est); err != nil {
				log.WithError(err).Warn("trip: report estimate")
			}
		}

		if !sleep(ctx, w.Interval) {
			return nil
		}
	}
}

func (w *TripWorker) estimate(stop string) (domain.TripEstimate, error) {
	distance, ok := w.State.Distance(stop)
	if !ok {
		return domain.TripEstimate{Stop: stop}, fmt.Errorf("estimate %q: %w", stop, ErrUnresolvedDistance)
	}

	speed := clampSpeed(w.State.Snapshot().SpeedKmh)
	return domain.TripEstimate{
		Stop:       stop,
		DistanceKm: distance,
		SpeedKmh:   speed,
		ETAMinutes: ETAMinutes(distance, speed),
		Resolved:   true,
	}, nil
}

// Ticks returns the number of waypoints consumed so far.
func (w *TripWorker) Ticks() int64 { return w.ticks.Load() }

// Estimates returns the reported estimates in route order. Only call it after
// Run has returned.
func (w *TripWorker) Estimates() []domain.TripEstimate {
	return append([]domain.TripEstimate(nil), w.estimates...)
}
