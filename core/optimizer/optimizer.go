// Package optimizer plans minibus routes for pending passenger requests.
// The engine invokes an Optimizer on every OPTIMIZE_CALL event; anything
// from a trivial stub to the full greedy-insertion planner can be plugged in.
package optimizer

import (
	"time"

	"github.com/Jingren-Tang/minitransit/core/model"
	"github.com/Jingren-Tang/minitransit/core/network"
)

// Request is a pending passenger the optimizer may insert into a route.
type Request struct {
	PassengerID string
	Origin      string
	Destination string
	AppearTime  time.Duration
}

// MinibusState is a snapshot of one minibus at optimization time. Route is
// the remaining, not yet executed plan; already visited stops are gone and
// therefore can never be reordered by the optimizer.
type MinibusState struct {
	ID             string
	Capacity       int
	CurrentStation string
	OnboardCount   int
	Route          []model.Stop
}

// Snapshot is the full optimizer input for one cycle. Requests are ordered
// by ascending appear time (ties by passenger id) and minibuses by id, so
// any deterministic optimizer produces reproducible plans.
type Snapshot struct {
	Now       time.Duration
	Requests  []Request
	Minibuses []MinibusState
}

// Optimizer produces new route plans. The returned map holds one complete
// replacement route per minibus id; entries that are sequence-identical to
// the active route are discarded by the engine. A returned error discards
// the whole cycle and keeps the previous plans active.
type Optimizer interface {
	Optimize(net *network.Network, snap Snapshot) (map[string][]model.Stop, error)
}

// Noop keeps every route unchanged and assigns nobody. It is the smallest
// conforming implementation and doubles as a test double.
type Noop struct{}

// Optimize returns every minibus's current route untouched.
func (Noop) Optimize(_ *network.Network, snap Snapshot) (map[string][]model.Stop, error) {
	out := make(map[string][]model.Stop, len(snap.Minibuses))
	for _, mb := range snap.Minibuses {
		out[mb.ID] = mb.Route
	}
	return out, nil
}
