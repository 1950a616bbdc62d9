package optimizer

import (
	"sort"
	"time"

	"github.com/Jingren-Tang/minitransit/core/logger"
	"github.com/Jingren-Tang/minitransit/core/model"
	"github.com/Jingren-Tang/minitransit/core/network"
)

// GreedyInsertion assigns pending passengers one at a time, each to the
// minimum-cost feasible insertion across all minibuses. Placements are never
// revisited, so the result is a heuristic, not a global optimum.
type GreedyInsertion struct {
	log logger.Logger
}

// NewGreedyInsertion creates the planner. A nil logger disables logging.
func NewGreedyInsertion(log logger.Logger) *GreedyInsertion {
	if log == nil {
		log = nopLogger{}
	}
	return &GreedyInsertion{log: log}
}

type candidate struct {
	vehicle int // index into snap.Minibuses
	i, j    int
	cost    time.Duration
	route   []model.Stop
}

// Optimize implements the Optimizer interface.
//
// For each request, every ordered pair of insertion positions (i <= j) over
// each minibus's remaining route is enumerated: the pickup goes to position
// i, the dropoff to position j of the original sequence, i == j meaning the
// two new stops end up adjacent. Chosen insertions are applied to a working
// copy immediately, so later requests in the same cycle see the stops of
// earlier ones.
func (g *GreedyInsertion) Optimize(net *network.Network, snap Snapshot) (map[string][]model.Stop, error) {
	working := make(map[string][]model.Stop, len(snap.Minibuses))
	for _, mb := range snap.Minibuses {
		working[mb.ID] = mb.Route
	}
	if len(snap.Requests) == 0 {
		return working, nil
	}

	order := make([]int, len(snap.Minibuses))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return snap.Minibuses[order[a]].ID < snap.Minibuses[order[b]].ID
	})

	requests := append([]Request(nil), snap.Requests...)
	sort.Slice(requests, func(a, b int) bool {
		if requests[a].AppearTime != requests[b].AppearTime {
			return requests[a].AppearTime < requests[b].AppearTime
		}
		return requests[a].PassengerID < requests[b].PassengerID
	})

	assigned := 0
	for _, req := range requests {
		best, found, err := g.bestInsertion(net, snap, order, working, req)
		if err != nil {
			return nil, err
		}
		if !found {
			g.log.Warnf("no feasible insertion for passenger %s (%s->%s)",
				req.PassengerID, req.Origin, req.Destination)
			continue
		}
		mb := snap.Minibuses[best.vehicle]
		working[mb.ID] = best.route
		assigned++
		g.log.Debugf("passenger %s -> %s at (%d,%d), cost %v",
			req.PassengerID, mb.ID, best.i, best.j, best.cost)
	}
	g.log.Infof("greedy insertion: assigned %d/%d pending requests", assigned, len(requests))
	return working, nil
}

// bestInsertion scans all feasible (vehicle, i, j) candidates for one
// request. Ties resolve to the lowest vehicle id, then lowest i, then lowest
// j, which the strict < comparison yields for free given the scan order.
func (g *GreedyInsertion) bestInsertion(
	net *network.Network,
	snap Snapshot,
	order []int,
	working map[string][]model.Stop,
	req Request,
) (candidate, bool, error) {
	var best candidate
	found := false
	pickup := model.Stop{Station: req.Origin, Action: model.Pickup, Passengers: []string{req.PassengerID}}
	dropoff := model.Stop{Station: req.Destination, Action: model.Dropoff, Passengers: []string{req.PassengerID}}

	for _, vi := range order {
		mb := snap.Minibuses[vi]
		route := working[mb.ID]
		for i := 0; i <= len(route); i++ {
			for j := i; j <= len(route); j++ {
				cand := spliceRoute(route, i, j, pickup, dropoff)
				if !capacityFeasible(cand, mb.OnboardCount, mb.Capacity) {
					continue
				}
				cost, err := routeCost(net, cand)
				if err != nil {
					return candidate{}, false, err
				}
				if !found || cost < best.cost {
					best = candidate{vehicle: vi, i: i, j: j, cost: cost, route: cand}
					found = true
				}
			}
		}
	}
	return best, found, nil
}

// spliceRoute builds the route with pickup inserted at position i and
// dropoff at position j of the original sequence.
func spliceRoute(route []model.Stop, i, j int, pickup, dropoff model.Stop) []model.Stop {
	out := make([]model.Stop, 0, len(route)+2)
	out = append(out, route[:i]...)
	out = append(out, pickup)
	out = append(out, route[i:j]...)
	out = append(out, dropoff)
	out = append(out, route[j:]...)
	return out
}

// capacityFeasible walks the route tracking a running onboard count that
// must stay within [0, capacity] at every stop, including already planned
// ones.
func capacityFeasible(route []model.Stop, onboard, capacity int) bool {
	occ := onboard
	for _, stop := range route {
		switch stop.Action {
		case model.Pickup:
			occ += len(stop.Passengers)
		case model.Dropoff:
			occ -= len(stop.Passengers)
		}
		if occ < 0 || occ > capacity {
			return false
		}
	}
	return true
}

// routeCost sums the travel durations between consecutive stops. Adjacent
// stops at the same station cost nothing.
func routeCost(net *network.Network, route []model.Stop) (time.Duration, error) {
	var total time.Duration
	for i := 1; i < len(route); i++ {
		d, err := net.Duration(route[i-1].Station, route[i].Station)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
