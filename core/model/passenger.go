package model

import (
	"fmt"
	"time"
)

// PassengerStatus describes where a passenger is in its lifecycle.
type PassengerStatus int

const (
	// Waiting means the passenger is at its origin station without a vehicle.
	Waiting PassengerStatus = iota
	// Assigned means a minibus route contains a pickup for the passenger.
	Assigned
	// Onboard means the passenger is riding a vehicle.
	Onboard
	// Arrived means the passenger reached its destination. Terminal.
	Arrived
	// TimedOut means the passenger gave up waiting. Terminal.
	TimedOut
)

// String returns the status name used in logs and observation records.
func (s PassengerStatus) String() string {
	switch s {
	case Waiting:
		return "WAITING"
	case Assigned:
		return "ASSIGNED"
	case Onboard:
		return "ONBOARD"
	case Arrived:
		return "ARRIVED"
	case TimedOut:
		return "TIMED_OUT"
	}
	return fmt.Sprintf("PassengerStatus(%d)", int(s))
}

// TripRequest is the tuple supplied by a demand source through the
// EnqueuePassenger integration point.
type TripRequest struct {
	ID          string        `json:"id"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	AppearTime  time.Duration `json:"appear_time"`
}

// Validate checks the request before it enters the simulation.
func (r TripRequest) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("trip request: empty passenger id")
	}
	if r.Origin == r.Destination {
		return fmt.Errorf("trip request %s: origin and destination are both %s", r.ID, r.Origin)
	}
	if r.AppearTime < 0 {
		return fmt.Errorf("trip request %s: negative appear time %v", r.ID, r.AppearTime)
	}
	return nil
}

// Passenger tracks a single travel demand from appearance to arrival or
// timeout. Timestamps are offsets from the start of the run.
type Passenger struct {
	ID          string
	Origin      string
	Destination string
	AppearTime  time.Duration

	Status          PassengerStatus
	AssignedVehicle string

	// PickupTime and ArrivalTime are meaningful once the corresponding
	// transition happened; before that they are zero.
	PickupTime  time.Duration
	ArrivalTime time.Duration
}

// NewPassenger creates a passenger in the Waiting state.
func NewPassenger(req TripRequest) (*Passenger, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Passenger{
		ID:          req.ID,
		Origin:      req.Origin,
		Destination: req.Destination,
		AppearTime:  req.AppearTime,
		Status:      Waiting,
	}, nil
}

// Assign binds the passenger to a vehicle route. Only legal from Waiting.
func (p *Passenger) Assign(vehicleID string, now time.Duration) error {
	if p.Status != Waiting {
		return fmt.Errorf("passenger %s: cannot assign in status %s", p.ID, p.Status)
	}
	if now < p.AppearTime {
		return fmt.Errorf("passenger %s: assign at %v before appearance at %v", p.ID, now, p.AppearTime)
	}
	p.Status = Assigned
	p.AssignedVehicle = vehicleID
	return nil
}

// Board moves the passenger onto a vehicle. Buses board waiting passengers
// directly, so both Waiting and Assigned are legal source states.
func (p *Passenger) Board(vehicleID string, now time.Duration) error {
	switch p.Status {
	case Waiting:
		p.AssignedVehicle = vehicleID
	case Assigned:
		if p.AssignedVehicle != vehicleID {
			return fmt.Errorf("passenger %s: assigned to %s, boarding %s", p.ID, p.AssignedVehicle, vehicleID)
		}
	default:
		return fmt.Errorf("passenger %s: cannot board in status %s", p.ID, p.Status)
	}
	p.Status = Onboard
	p.PickupTime = now
	return nil
}

// Arrive completes the trip. Only legal from Onboard.
func (p *Passenger) Arrive(now time.Duration) error {
	if p.Status != Onboard {
		return fmt.Errorf("passenger %s: cannot arrive in status %s", p.ID, p.Status)
	}
	if now < p.PickupTime {
		return fmt.Errorf("passenger %s: arrival at %v before pickup at %v", p.ID, now, p.PickupTime)
	}
	p.Status = Arrived
	p.ArrivalTime = now
	return nil
}

// TimeOut abandons the trip after waiting too long. Only legal from Waiting.
func (p *Passenger) TimeOut(now time.Duration) error {
	if p.Status != Waiting {
		return fmt.Errorf("passenger %s: cannot time out in status %s", p.ID, p.Status)
	}
	p.Status = TimedOut
	return nil
}

// WaitTime returns the time spent waiting at the origin station. For
// passengers that have not boarded it is the wait accumulated so far.
func (p *Passenger) WaitTime(now time.Duration) time.Duration {
	if p.Status == Onboard || p.Status == Arrived {
		return p.PickupTime - p.AppearTime
	}
	return now - p.AppearTime
}

// TravelTime returns the onboard time for arrived passengers, zero otherwise.
func (p *Passenger) TravelTime() time.Duration {
	if p.Status != Arrived {
		return 0
	}
	return p.ArrivalTime - p.PickupTime
}

// Terminal reports whether the passenger reached a final state.
func (p *Passenger) Terminal() bool {
	return p.Status == Arrived || p.Status == TimedOut
}
