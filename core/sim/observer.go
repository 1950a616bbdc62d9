package sim

import "time"

// Observation is the structured record emitted for every processed event.
// External statistics, reporting and visualization consume this stream;
// the engine itself never reads it back.
type Observation struct {
	Time        time.Duration `json:"time"`
	Kind        string        `json:"event_kind"`
	VehicleID   string        `json:"vehicle_id,omitempty"`
	StationID   string        `json:"station_id,omitempty"`
	PassengerID string        `json:"passenger_id,omitempty"`
	Boarded     []string      `json:"boarded_ids,omitempty"`
	Alighted    []string      `json:"alighted_ids,omitempty"`
	Occupancy   int           `json:"occupancy"`
}

// Observer receives the per-event observation stream. Implementations must
// not block: the engine calls them synchronously from the event loop.
type Observer interface {
	Observe(Observation)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Observation)

func (f ObserverFunc) Observe(o Observation) { f(o) }

// NopObserver discards all records.
type NopObserver struct{}

func (NopObserver) Observe(Observation) {}

// MultiObserver fans a record out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) Observe(o Observation) {
	for _, obs := range m {
		obs.Observe(o)
	}
}
