package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/ports"
)

// Config holds the timing of a session.
type Config struct {
	SensorInterval time.Duration
	TripInterval   time.Duration
	Duration       time.Duration
}

// DefaultConfig returns the standard session: a 1s sensor, a 3s trip planner
// and a 15s window.
func DefaultConfig() Config {
	return Config{
		SensorInterval: time.Second,
		TripInterval:   3 * time.Second,
		Duration:       15 * time.Second,
	}
}

func (c Config) Validate() error {
	if c.SensorInterval <= 0 {
		return errors.New("session config: sensor interval must be positive")
	}
	if c.TripInterval <= 0 {
		return errors.New("session config: trip interval must be positive")
	}
	if c.Duration <= 0 {
		return errors.New("session config: duration must be positive")
	}
	return nil
}

// Result is everything a finished session hands back to its caller.
type Result struct {
	SpeedHistory []float64
	Estimates    []domain.TripEstimate
	SensorTicks  int64
	TripTicks    int64
	// RemainingStops counts waypoints never consumed.
	RemainingStops int
	// SensorElapsed and TripElapsed measure from session start to the
	// moment each worker returned.
	SensorElapsed time.Duration
	TripElapsed   time.Duration
	Elapsed       time.Duration
	// Interrupted is set when the parent context ended the session before
	// its window elapsed.
	Interrupted bool
}

// Supervisor owns the lifecycle of a session: it seeds the route, starts both
// workers, cancels them once the window has elapsed and joins them.
type Supervisor struct {
	cfg       Config
	waypoints []domain.Waypoint
	sampler   Sampler
	sink      ports.TelemetrySink
}

// NewSupervisor validates cfg. A nil sampler draws from a randomly seeded
// UniformSampler; a nil sink discards reports.
func NewSupervisor(cfg Config, waypoints []domain.Waypoint, sampler Sampler, sink ports.TelemetrySink) (*Supervisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new supervisor: %w", err)
	}
	if sampler == nil {
		sampler = NewUniformSampler(nil)
	}
	if sink == nil {
		sink = MultiSink{}
	}

	return &Supervisor{
		cfg:       cfg,
		waypoints: append([]domain.Waypoint(nil), waypoints...),
		sampler:   sampler,
		sink:      sink,
	}, nil
}

// Run executes one session. It returns only after both workers have
// terminated. Cancelling ctx ends the window early; the partial result is
// still returned with Interrupted set.
func (s *Supervisor) Run(ctx context.Context) (*Result, error) {
	state := NewState(NewRoute(s.waypoints))

	sensor := &SensorWorker{State: state, Sampler: s.sampler, Sink: s.sink, Interval: s.cfg.SensorInterval}
	trip := &TripWorker{State: state, Sink: s.sink, Interval: s.cfg.TripInterval}

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	start := time.Now()
	entry := log.WithFields(log.Fields{
		"duration":        s.cfg.Duration,
		"sensor_interval": s.cfg.SensorInterval,
		"trip_interval":   s.cfg.TripInterval,
		"stops":           len(s.waypoints),
	})
	entry.Info("session started")

	// A plain group: a worker returning early, as the trip worker does when
	// the route runs out, must not end the session.
	var g errgroup.Group
	var sensorElapsed, tripElapsed time.Duration
	g.Go(func() error {
		defer func() { sensorElapsed = time.Since(start) }()
		return sensor.Run(sessionCtx)
	})
	g.Go(func() error {
		defer func() { tripElapsed = time.Since(start) }()
		return trip.Run(sessionCtx)
	})

	interrupted := false
	timer := time.NewTimer(s.cfg.Duration)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		interrupted = true
	}

	cancel()
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run session: %w", err)
	}

	res := &Result{
		SpeedHistory:   state.SpeedHistory(),
		Estimates:      trip.Estimates(),
		SensorTicks:    sensor.Ticks(),
		TripTicks:      trip.Ticks(),
		RemainingStops: state.RouteLen(),
		SensorElapsed:  sensorElapsed,
		TripElapsed:    tripElapsed,
		Elapsed:        time.Since(start),
		Interrupted:    interrupted,
	}

	entry.WithFields(log.Fields{
		"samples":     len(res.SpeedHistory),
		"stops_done":  res.TripTicks,
		"elapsed":     res.Elapsed,
		"interrupted": interrupted,
	}).Info("session finished")

	return res, nil
}
