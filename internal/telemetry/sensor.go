package telemetry

import (
	"context"
	"math/rand/v2"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/ports"
)

// Sampling domains of the simulated sensor.
const (
	MinSpeedKmh    = 40.0
	MaxSpeedKmh    = 120.0
	MinRPM         = 1000
	MaxRPM         = 5000
	MinMileageKmpl = 10.0
	MaxMileageKmpl = 18.0
)

// Sampler produces one sensor reading per call.
type Sampler interface {
	Sample(now time.Time) domain.VehicleReading
}

// UniformSampler draws every field independently and uniformly from its
// domain. Consecutive samples are unrelated, like a raw sensor stub.
// It is not safe for concurrent use; each session owns one.
type UniformSampler struct {
	rng *rand.Rand
}

func NewUniformSampler(src rand.Source) *UniformSampler {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &UniformSampler{rng: rand.New(src)}
}

func (s *UniformSampler) Sample(now time.Time) domain.VehicleReading {
	return domain.VehicleReading{
		SpeedKmh:    MinSpeedKmh + s.rng.Float64()*(MaxSpeedKmh-MinSpeedKmh),
		RPM:         MinRPM + s.rng.IntN(MaxRPM-MinRPM+1),
		MileageKmpl: MinMileageKmpl + s.rng.Float64()*(MaxMileageKmpl-MinMileageKmpl),
		RecordedAt:  now,
	}
}

// SensorWorker samples a reading every Interval, records it in State and
// reports it to Sink.
type SensorWorker struct {
	State    *State
	Sampler  Sampler
	Sink     ports.TelemetrySink
	Interval time.Duration

	ticks atomic.Int64
}

// Run loops until ctx is cancelled. It never returns an error; the signature
// matches the other session workers.
func (w *SensorWorker) Run(ctx context.Context) error {
	sinkCtx := context.WithoutCancel(ctx)

	for {
		if ctx.Err() != nil {
			return nil
		}

		r := w.Sampler.Sample(time.Now())
		w.State.Update(r)
		w.ticks.Inc()

		if w.Sink != nil {
			if err := w.Sink.ReadingRecorded(sinkCtx, r); err != nil {
				log.WithError(err).Warn("sensor: report reading")
			}
		}

		if !sleep(ctx, w.Interval) {
			return nil
		}
	}
}

// Ticks returns the number of readings recorded so far.
func (w *SensorWorker) Ticks() int64 { return w.ticks.Load() }

// sleep waits for d outside any lock. It returns false if ctx was cancelled
// first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
