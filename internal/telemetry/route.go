package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"trip-telemetry-service/internal/domain"
)

// SampleRoute returns the trip driven when no route file is configured.
func SampleRoute() []domain.Waypoint {
	return []domain.Waypoint{
		{Name: "City A", DistanceKm: km(50)},
		{Name: "City B", DistanceKm: km(120)},
		{Name: "City C", DistanceKm: km(200)},
	}
}

func km(v float64) *float64 { return &v }

// Route is a FIFO of waypoint names plus a fixed name->distance table.
// Route does no locking of its own; once handed to NewState, the queue is only
// touched under the state lock.
type Route struct {
	queue     []string
	distances map[string]float64
}

// NewRoute enqueues the waypoints in order and records the known distances.
func NewRoute(waypoints []domain.Waypoint) *Route {
	r := &Route{
		queue:     make([]string, 0, len(waypoints)),
		distances: make(map[string]float64, len(waypoints)),
	}
	for _, w := range waypoints {
		r.queue = append(r.queue, w.Name)
		if w.DistanceKm != nil {
			r.distances[w.Name] = *w.DistanceKm
		}
	}
	return r
}

// Distance returns the distance for name, or false when the table has none.
func (r *Route) Distance(name string) (float64, bool) {
	km, ok := r.distances[name]
	return km, ok
}

func (r *Route) pop() (string, bool) {
	if len(r.queue) == 0 {
		return "", false
	}
	next := r.queue[0]
	r.queue[0] = ""
	r.queue = r.queue[1:]
	return next, true
}

func (r *Route) pending() int { return len(r.queue) }

type routeSeed struct {
	Name       string   `json:"name"`
	DistanceKm *float64 `json:"distance_km"`
}

// LoadRouteJSON reads waypoints from a JSON array of
// {"name": ..., "distance_km": ...} objects, preserving file order. A null or
// absent distance leaves the waypoint unresolved.
func LoadRouteJSON(path string) ([]domain.Waypoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load route: read %q: %w", path, err)
	}

	var seeds []routeSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("load route: parse json: %w", err)
	}

	return validateRoute(seeds)
}

func validateRoute(seeds []routeSeed) ([]domain.Waypoint, error) {
	if len(seeds) == 0 {
		return nil, errors.New("load route: route must contain at least one waypoint")
	}

	seen := make(map[string]struct{}, len(seeds))
	out := make([]domain.Waypoint, 0, len(seeds))
	for i, s := range seeds {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return nil, fmt.Errorf("load route: waypoint at index %d: name cannot be empty", i)
		}
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("load route: waypoint %q listed twice", name)
		}
		if s.DistanceKm != nil && *s.DistanceKm < 0 {
			return nil, fmt.Errorf("load route: waypoint %q: negative distance %v", name, *s.DistanceKm)
		}
		seen[name] = struct{}{}
		out = append(out, domain.Waypoint{Name: name, DistanceKm: s.DistanceKm})
	}

	return out, nil
}
