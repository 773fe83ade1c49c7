// Package telemetry runs the vehicle simulation: a sensor worker and a trip
// worker sharing one lock-guarded vehicle record, supervised for a fixed
// session window.
package telemetry

import (
	"sync"

	"trip-telemetry-service/internal/domain"
)

// State is the single unit of mutual exclusion of a session. It guards the
// latest reading, the speed log and the head of the route queue.
//
// Critical sections only assign or copy fields; no I/O or sleeping happens
// while mu is held.
type State struct {
	mu      sync.Mutex
	reading domain.VehicleReading
	speeds  []float64
	route   *Route
}

// NewState returns a state holding a zero reading, an empty speed log and the
// given route. The route must not be used by the caller afterwards.
func NewState(route *Route) *State {
	if route == nil {
		route = NewRoute(nil)
	}
	return &State{route: route}
}

// Update replaces the reading and appends its speed to the speed log in the
// same critical section.
func (s *State) Update(r domain.VehicleReading) {
	s.mu.Lock()
	s.reading = r
	s.speeds = append(s.speeds, r.SpeedKmh)
	s.mu.Unlock()
}

// Snapshot returns the reading most recently passed to Update.
func (s *State) Snapshot() domain.VehicleReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reading
}

// NextWaypoint pops the head of the route queue.
func (s *State) NextWaypoint() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route.pop()
}

// RouteLen returns the number of waypoints not yet consumed.
func (s *State) RouteLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route.pending()
}

// Distance looks up a waypoint distance. The distance table is fixed before
// workers start, so no lock is needed.
func (s *State) Distance(name string) (float64, bool) {
	return s.route.Distance(name)
}

// SpeedHistory returns a copy of the speed log in recording order.
func (s *State) SpeedHistory() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float64, len(s.speeds))
	copy(out, s.speeds)
	return out
}
