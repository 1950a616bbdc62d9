package model

import "fmt"

// StopAction tags a route stop as boarding or alighting.
type StopAction int

const (
	Pickup StopAction = iota
	Dropoff
)

// String returns the wire name of the action.
func (a StopAction) String() string {
	switch a {
	case Pickup:
		return "PICKUP"
	case Dropoff:
		return "DROPOFF"
	}
	return fmt.Sprintf("StopAction(%d)", int(a))
}

// Stop is one element of a minibus route plan: a station, the action to
// perform there and the passengers it names. Passenger order is preserved
// so that plans compare and serialize deterministically.
type Stop struct {
	Station    string     `json:"station_id"`
	Action     StopAction `json:"action"`
	Passengers []string   `json:"passenger_ids"`
}

// NewStop validates a stop at construction. Every stop must name at least
// one passenger; empty repositioning stops are not part of the plan format.
func NewStop(station string, action StopAction, passengers []string) (Stop, error) {
	if station == "" {
		return Stop{}, fmt.Errorf("stop: empty station id")
	}
	if action != Pickup && action != Dropoff {
		return Stop{}, fmt.Errorf("stop at %s: invalid action %d", station, int(action))
	}
	if len(passengers) == 0 {
		return Stop{}, fmt.Errorf("stop at %s: no passengers named", station)
	}
	seen := make(map[string]struct{}, len(passengers))
	for _, id := range passengers {
		if id == "" {
			return Stop{}, fmt.Errorf("stop at %s: empty passenger id", station)
		}
		if _, dup := seen[id]; dup {
			return Stop{}, fmt.Errorf("stop at %s: passenger %s named twice", station, id)
		}
		seen[id] = struct{}{}
	}
	return Stop{Station: station, Action: action, Passengers: passengers}, nil
}

// Names reports whether the stop involves the given passenger.
func (s Stop) Names(passengerID string) bool {
	for _, id := range s.Passengers {
		if id == passengerID {
			return true
		}
	}
	return false
}

func (s Stop) equal(o Stop) bool {
	if s.Station != o.Station || s.Action != o.Action || len(s.Passengers) != len(o.Passengers) {
		return false
	}
	for i, id := range s.Passengers {
		if o.Passengers[i] != id {
			return false
		}
	}
	return true
}

// RoutesEqual reports whether two route plans are sequence-identical:
// same ordered (station, action, passenger set) tuples.
func RoutesEqual(a, b []Stop) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}

// CloneRoute returns a deep copy of a route plan.
func CloneRoute(route []Stop) []Stop {
	if route == nil {
		return nil
	}
	out := make([]Stop, len(route))
	for i, s := range route {
		out[i] = Stop{Station: s.Station, Action: s.Action, Passengers: append([]string(nil), s.Passengers...)}
	}
	return out
}
