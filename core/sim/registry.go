package sim

import (
	"fmt"
	"sort"

	"github.com/Jingren-Tang/minitransit/core/model"
)

// Registry owns every passenger and vehicle record plus the pending-request
// set and per-station waiting lists. Iteration orders are deterministic:
// vehicles by id, waiting lists and pending requests by insertion.
type Registry struct {
	passengers map[string]*model.Passenger
	vehicles   map[string]*model.Vehicle
	vehicleIDs []string

	waiting map[string][]*model.Passenger
	pending []*model.Passenger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		passengers: make(map[string]*model.Passenger),
		vehicles:   make(map[string]*model.Vehicle),
		waiting:    make(map[string][]*model.Passenger),
	}
}

// AddVehicle registers a vehicle. Vehicle ids are unique across classes.
func (r *Registry) AddVehicle(v *model.Vehicle) error {
	if _, dup := r.vehicles[v.ID]; dup {
		return fmt.Errorf("registry: duplicate vehicle id %s", v.ID)
	}
	r.vehicles[v.ID] = v
	r.vehicleIDs = append(r.vehicleIDs, v.ID)
	sort.Strings(r.vehicleIDs)
	return nil
}

// Vehicle returns the vehicle with the given id.
func (r *Registry) Vehicle(id string) (*model.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, &LookupError{Kind: "vehicle", ID: id}
	}
	return v, nil
}

// Vehicles returns all vehicles in ascending id order.
func (r *Registry) Vehicles() []*model.Vehicle {
	out := make([]*model.Vehicle, 0, len(r.vehicleIDs))
	for _, id := range r.vehicleIDs {
		out = append(out, r.vehicles[id])
	}
	return out
}

// Minibuses returns all minibuses in ascending id order.
func (r *Registry) Minibuses() []*model.Vehicle {
	var out []*model.Vehicle
	for _, id := range r.vehicleIDs {
		if v := r.vehicles[id]; v.Class == model.Minibus {
			out = append(out, v)
		}
	}
	return out
}

// AddPassenger registers a newly appeared passenger.
func (r *Registry) AddPassenger(p *model.Passenger) error {
	if _, dup := r.passengers[p.ID]; dup {
		return fmt.Errorf("registry: duplicate passenger id %s", p.ID)
	}
	r.passengers[p.ID] = p
	return nil
}

// Passenger returns the passenger with the given id.
func (r *Registry) Passenger(id string) (*model.Passenger, error) {
	p, ok := r.passengers[id]
	if !ok {
		return nil, &LookupError{Kind: "passenger", ID: id}
	}
	return p, nil
}

// Passengers returns every passenger ever registered, in ascending id order.
func (r *Registry) Passengers() []*model.Passenger {
	ids := make([]string, 0, len(r.passengers))
	for id := range r.passengers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*model.Passenger, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.passengers[id])
	}
	return out
}

// AddWaiting appends the passenger to its origin station's waiting list.
func (r *Registry) AddWaiting(station string, p *model.Passenger) {
	r.waiting[station] = append(r.waiting[station], p)
}

// Waiting returns the waiting list of a station in first-appeared order.
func (r *Registry) Waiting(station string) []*model.Passenger {
	return r.waiting[station]
}

// RemoveWaiting removes the passenger from the station's waiting list.
func (r *Registry) RemoveWaiting(station string, passengerID string) {
	list := r.waiting[station]
	for i, p := range list {
		if p.ID == passengerID {
			r.waiting[station] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// WaitingStations returns stations with a non-empty waiting list, sorted.
func (r *Registry) WaitingStations() []string {
	out := make([]string, 0, len(r.waiting))
	for st, list := range r.waiting {
		if len(list) > 0 {
			out = append(out, st)
		}
	}
	sort.Strings(out)
	return out
}

// AddPending appends the passenger to the pending-request set. Appear events
// are processed in time order, so the slice stays sorted by appear time.
func (r *Registry) AddPending(p *model.Passenger) {
	r.pending = append(r.pending, p)
}

// Pending returns the pending-request set in appearance order.
func (r *Registry) Pending() []*model.Passenger {
	return r.pending
}

// RemovePending drops the passenger from the pending-request set.
func (r *Registry) RemovePending(passengerID string) {
	for i, p := range r.pending {
		if p.ID == passengerID {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return
		}
	}
}
