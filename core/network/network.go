// Package network provides the static travel-time lookup between stations.
// Durations are directional: duration(a, b) and duration(b, a) are modelled
// independently and the triangle inequality is not assumed.
package network

import (
	"fmt"
	"sort"
	"time"
)

// ErrUnknownStation is wrapped by lookups naming a station outside the network.
var ErrUnknownStation = fmt.Errorf("unknown station")

// ErrUnknownPair is wrapped when no duration is modelled for a station pair.
var ErrUnknownPair = fmt.Errorf("unmodelled station pair")

type edge struct{ from, to string }

// Network is the immutable station set and pairwise duration table.
type Network struct {
	stations  map[string]struct{}
	durations map[edge]time.Duration
}

// New creates a network over the given stations.
func New(stations []string) (*Network, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("network: no stations")
	}
	set := make(map[string]struct{}, len(stations))
	for _, id := range stations {
		if id == "" {
			return nil, fmt.Errorf("network: empty station id")
		}
		if _, dup := set[id]; dup {
			return nil, fmt.Errorf("network: duplicate station %s", id)
		}
		set[id] = struct{}{}
	}
	return &Network{stations: set, durations: make(map[edge]time.Duration)}, nil
}

// SetDuration registers the directed travel time from one station to another.
func (n *Network) SetDuration(from, to string, d time.Duration) error {
	if _, ok := n.stations[from]; !ok {
		return fmt.Errorf("network: %w: %s", ErrUnknownStation, from)
	}
	if _, ok := n.stations[to]; !ok {
		return fmt.Errorf("network: %w: %s", ErrUnknownStation, to)
	}
	if d < 0 {
		return fmt.Errorf("network: negative duration %v for %s->%s", d, from, to)
	}
	n.durations[edge{from, to}] = d
	return nil
}

// Duration looks up the directed travel time. Querying a pair the network
// does not model is a data inconsistency and fails.
func (n *Network) Duration(from, to string) (time.Duration, error) {
	if _, ok := n.stations[from]; !ok {
		return 0, fmt.Errorf("network: %w: %s", ErrUnknownStation, from)
	}
	if _, ok := n.stations[to]; !ok {
		return 0, fmt.Errorf("network: %w: %s", ErrUnknownStation, to)
	}
	if from == to {
		return 0, nil
	}
	d, ok := n.durations[edge{from, to}]
	if !ok {
		return 0, fmt.Errorf("network: %w: %s->%s", ErrUnknownPair, from, to)
	}
	return d, nil
}

// HasStation reports whether the station belongs to the network.
func (n *Network) HasStation(id string) bool {
	_, ok := n.stations[id]
	return ok
}

// Stations returns the station identifiers in sorted order.
func (n *Network) Stations() []string {
	out := make([]string, 0, len(n.stations))
	for id := range n.stations {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
