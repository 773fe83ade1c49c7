package telemetry

import (
	"context"
	"fmt"
	"io"
	"sync"

	"trip-telemetry-service/internal/domain"
)

// ConsoleSink writes one human-readable line per report. Numbers are printed
// with six significant digits.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

func (c *ConsoleSink) ReadingRecorded(_ context.Context, r domain.VehicleReading) error {
	return c.printf("[Sensor] Speed: %.6g km/h, RPM: %d, Mileage: %.6g km/l\n",
		r.SpeedKmh, r.RPM, r.MileageKmpl)
}

func (c *ConsoleSink) EstimateReported(_ context.Context, e domain.TripEstimate) error {
	if !e.Resolved {
		return c.printf("[Trip] Next stop: %s, Distance: unresolved, ETA: unknown\n", e.Stop)
	}
	return c.printf("[Trip] Next stop: %s, Distance: %.6g km, ETA: %.6g minutes\n",
		e.Stop, e.DistanceKm, e.ETAMinutes)
}

func (c *ConsoleSink) printf(format string, args ...any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.w, format, args...); err != nil {
		return fmt.Errorf("console sink: %w", err)
	}
	return nil
}

// WriteSpeedHistory prints the collected speed log after a session.
func WriteSpeedHistory(w io.Writer, speeds []float64) error {
	if _, err := io.WriteString(w, "\n--- Speed History ---\n"); err != nil {
		return fmt.Errorf("write speed history: %w", err)
	}
	for _, s := range speeds {
		if _, err := fmt.Fprintf(w, "%.6g km/h\n", s); err != nil {
			return fmt.Errorf("write speed history: %w", err)
		}
	}
	return nil
}
