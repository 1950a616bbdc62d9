package sim

import (
	"fmt"
	"time"

	"github.com/Jingren-Tang/minitransit/core/model"
)

// EventKind enumerates the closed set of simulation events.
type EventKind int

const (
	EventBusArrival EventKind = iota
	EventMinibusArrival
	EventPassengerAppear
	EventOptimizeCall
	EventSimulationEnd
)

// String returns the wire name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventBusArrival:
		return "BUS_ARRIVAL"
	case EventMinibusArrival:
		return "MINIBUS_ARRIVAL"
	case EventPassengerAppear:
		return "PASSENGER_APPEAR"
	case EventOptimizeCall:
		return "OPTIMIZE_CALL"
	case EventSimulationEnd:
		return "SIMULATION_END"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// rank is the fixed tie-break priority between kinds scheduled for the same
// instant: arrivals before new demand, demand before optimization, the end
// marker last. Lower ranks pop first.
func (k EventKind) rank() int {
	switch k {
	case EventBusArrival:
		return 0
	case EventMinibusArrival:
		return 1
	case EventPassengerAppear:
		return 2
	case EventOptimizeCall:
		return 3
	case EventSimulationEnd:
		return 10
	}
	return 5
}

// Event is one scheduled occurrence. Which payload fields are set depends on
// the kind: arrivals carry VehicleID and Station, appearances carry Request.
type Event struct {
	Time time.Duration
	Kind EventKind

	VehicleID string
	Station   string
	Request   model.TripRequest

	// seq is the insertion sequence number completing the total order.
	seq uint64
}

func (e Event) String() string {
	switch e.Kind {
	case EventBusArrival, EventMinibusArrival:
		return fmt.Sprintf("%s(t=%v vehicle=%s station=%s)", e.Kind, e.Time, e.VehicleID, e.Station)
	case EventPassengerAppear:
		return fmt.Sprintf("%s(t=%v passenger=%s)", e.Kind, e.Time, e.Request.ID)
	}
	return fmt.Sprintf("%s(t=%v)", e.Kind, e.Time)
}
