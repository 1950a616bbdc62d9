package model

import (
	"fmt"
	"time"
)

// VehicleClass distinguishes fixed-route buses from dispatchable minibuses.
type VehicleClass int

const (
	Bus VehicleClass = iota
	Minibus
)

func (c VehicleClass) String() string {
	switch c {
	case Bus:
		return "BUS"
	case Minibus:
		return "MINIBUS"
	}
	return fmt.Sprintf("VehicleClass(%d)", int(c))
}

// VehicleStatus describes whether a vehicle has work left.
type VehicleStatus int

const (
	// EnRoute means the vehicle is travelling towards its next stop.
	EnRoute VehicleStatus = iota
	// Idle means a minibus has no remaining stops and awaits assignment.
	// Buses never become idle; an exhausted schedule leaves them inactive.
	Idle
)

func (s VehicleStatus) String() string {
	if s == Idle {
		return "IDLE"
	}
	return "EN_ROUTE"
}

// ScheduledStop is one entry of a bus's fixed timetable.
type ScheduledStop struct {
	Station string        `json:"station_id"`
	At      time.Duration `json:"at"`
}

// Vehicle is a bus or minibus. Buses execute the immutable Schedule;
// minibuses execute Route, which the optimizer replaces wholesale.
type Vehicle struct {
	ID             string
	Class          VehicleClass
	Capacity       int
	CurrentStation string
	Status         VehicleStatus

	// Onboard preserves boarding order so occupancy snapshots and
	// observation records are deterministic.
	Onboard []string

	// Route is the remaining, not yet executed plan of a minibus.
	Route []Stop

	// Schedule is the fixed timetable of a bus; ScheduleIndex points at
	// the next stop not yet served.
	Schedule      []ScheduledStop
	ScheduleIndex int
}

// NewBus creates a fixed-route bus positioned at the first scheduled station.
func NewBus(id string, capacity int, schedule []ScheduledStop) (*Vehicle, error) {
	if id == "" {
		return nil, fmt.Errorf("bus: empty id")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("bus %s: capacity must be positive, got %d", id, capacity)
	}
	if len(schedule) == 0 {
		return nil, fmt.Errorf("bus %s: empty schedule", id)
	}
	for i := 1; i < len(schedule); i++ {
		if schedule[i].At < schedule[i-1].At {
			return nil, fmt.Errorf("bus %s: schedule times decrease at index %d", id, i)
		}
	}
	return &Vehicle{
		ID:             id,
		Class:          Bus,
		Capacity:       capacity,
		CurrentStation: schedule[0].Station,
		Status:         EnRoute,
		Schedule:       schedule,
	}, nil
}

// NewMinibus creates an idle minibus at its home station.
func NewMinibus(id string, capacity int, home string) (*Vehicle, error) {
	if id == "" {
		return nil, fmt.Errorf("minibus: empty id")
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("minibus %s: capacity must be positive, got %d", id, capacity)
	}
	if home == "" {
		return nil, fmt.Errorf("minibus %s: empty home station", id)
	}
	return &Vehicle{
		ID:             id,
		Class:          Minibus,
		Capacity:       capacity,
		CurrentStation: home,
		Status:         Idle,
	}, nil
}

// OnboardCount returns the current occupancy.
func (v *Vehicle) OnboardCount() int { return len(v.Onboard) }

// Carries reports whether the passenger is currently onboard.
func (v *Vehicle) Carries(passengerID string) bool {
	for _, id := range v.Onboard {
		if id == passengerID {
			return true
		}
	}
	return false
}

// AddOnboard records a boarding. The caller enforces the capacity
// invariant; exceeding it here is an internal defect, not a runtime branch.
func (v *Vehicle) AddOnboard(passengerID string) error {
	if len(v.Onboard) >= v.Capacity {
		return fmt.Errorf("vehicle %s: boarding %s would exceed capacity %d", v.ID, passengerID, v.Capacity)
	}
	if v.Carries(passengerID) {
		return fmt.Errorf("vehicle %s: passenger %s already onboard", v.ID, passengerID)
	}
	v.Onboard = append(v.Onboard, passengerID)
	return nil
}

// RemoveOnboard records an alighting.
func (v *Vehicle) RemoveOnboard(passengerID string) error {
	for i, id := range v.Onboard {
		if id == passengerID {
			v.Onboard = append(v.Onboard[:i], v.Onboard[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("vehicle %s: passenger %s not onboard", v.ID, passengerID)
}

// NextScheduled returns the next timetable entry of a bus, if any.
func (v *Vehicle) NextScheduled() (ScheduledStop, bool) {
	if v.Class != Bus || v.ScheduleIndex >= len(v.Schedule) {
		return ScheduledStop{}, false
	}
	return v.Schedule[v.ScheduleIndex], true
}
