package domain

import "time"

// Represents a single vehicle sensor sample.
// A VehicleReading is replaced as a whole on every sensor tick; readers never
// observe fields from two different samples.
type VehicleReading struct {
	SpeedKmh    float64
	RPM         int
	MileageKmpl float64
	RecordedAt  time.Time
}
