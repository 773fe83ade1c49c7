package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-telemetry-service/internal/domain"
	"trip-telemetry-service/internal/platform/obs"
)

// RedisSink publishes the live state of one simulated vehicle:
//
//	<prefix>:<vehicle>:latest     hash with the latest reading
//	<prefix>:<vehicle>:speeds     list of speeds, oldest first
//	<prefix>:<vehicle>:estimates  list of JSON trip estimates
//
// It is a read model for dashboards; nothing reads it back into a session.
type RedisSink struct {
	client  redis.UniversalClient
	keyBase string
}

func NewRedisSink(client redis.UniversalClient, prefix, vehicleID string) (*RedisSink, error) {
	if client == nil {
		return nil, errors.New("redis sink: client is nil")
	}
	if strings.TrimSpace(vehicleID) == "" {
		return nil, errors.New("redis sink: vehicle id must be non-empty")
	}

	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "tripsim"
	}

	return &RedisSink{client: client, keyBase: prefix + ":" + vehicleID}, nil
}

// OpenRedisSink parses a redis:// URL and returns a sink over a new client.
func OpenRedisSink(ctx context.Context, url, prefix, vehicleID string) (*RedisSink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis sink: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("open redis sink: ping: %w", err)
	}

	return NewRedisSink(client, prefix, vehicleID)
}

func (s *RedisSink) LatestKey() string    { return s.keyBase + ":latest" }
func (s *RedisSink) SpeedsKey() string    { return s.keyBase + ":speeds" }
func (s *RedisSink) EstimatesKey() string { return s.keyBase + ":estimates" }

// Reset drops the speed and estimate history left by an earlier session.
func (s *RedisSink) Reset(ctx context.Context) error {
	if err := s.client.Del(ctx, s.LatestKey(), s.SpeedsKey(), s.EstimatesKey()).Err(); err != nil {
		return fmt.Errorf("redis sink: reset: %w", err)
	}
	return nil
}

func (s *RedisSink) ReadingRecorded(ctx context.Context, r domain.VehicleReading) (err error) {
	defer obs.Time(ctx, "redis.ReadingRecorded")(&err)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.LatestKey(),
		"speed_kmh", r.SpeedKmh,
		"rpm", r.RPM,
		"mileage_kmpl", r.MileageKmpl,
		"recorded_at", r.RecordedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.RPush(ctx, s.SpeedsKey(), r.SpeedKmh)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sink: record reading: %w", err)
	}
	return nil
}

type estimateRecord struct {
	Stop       string   `json:"stop"`
	DistanceKm *float64 `json:"distance_km"`
	ETAMinutes *float64 `json:"eta_minutes"`
	SpeedKmh   float64  `json:"speed_kmh"`
}

func (s *RedisSink) EstimateReported(ctx context.Context, e domain.TripEstimate) (err error) {
	defer obs.Time(ctx, "redis.EstimateReported")(&err)

	rec := estimateRecord{Stop: e.Stop, SpeedKmh: e.SpeedKmh}
	if e.Resolved {
		rec.DistanceKm = &e.DistanceKm
		rec.ETAMinutes = &e.ETAMinutes
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis sink: encode estimate: %w", err)
	}
	if err := s.client.RPush(ctx, s.EstimatesKey(), b).Err(); err != nil {
		return fmt.Errorf("redis sink: record estimate: %w", err)
	}
	return nil
}
