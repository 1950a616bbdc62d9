package config

import (
	"fmt"
	"time"

	"github.com/Jingren-Tang/minitransit/core/model"
)

// TimetableStopConfig is one fixed stop of a bus timetable.
type TimetableStopConfig struct {
	Station   string  `json:"station"`
	AtSeconds float64 `json:"at_seconds"`
}

// BusConfig declares one timetabled bus.
type BusConfig struct {
	ID       string                `json:"id"`
	Capacity int                   `json:"capacity"`
	Schedule []TimetableStopConfig `json:"schedule"`
}

// MinibusConfig declares one on-demand minibus and its home station.
type MinibusConfig struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
	Home     string `json:"home"`
}

// FleetConfig declares the vehicles taking part in the run.
type FleetConfig struct {
	Buses     []BusConfig     `json:"buses"`
	Minibuses []MinibusConfig `json:"minibuses"`
}

// Validate checks mandatory fields.
func (c FleetConfig) Validate() error {
	if len(c.Buses)+len(c.Minibuses) == 0 {
		return fmt.Errorf("fleet: at least one vehicle is required")
	}
	seen := make(map[string]struct{}, len(c.Buses)+len(c.Minibuses))
	for _, b := range c.Buses {
		if b.ID == "" {
			return fmt.Errorf("fleet: bus id must be non-empty")
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("fleet: duplicate vehicle id %s", b.ID)
		}
		seen[b.ID] = struct{}{}
		if len(b.Schedule) == 0 {
			return fmt.Errorf("fleet: bus %s has no schedule", b.ID)
		}
	}
	for _, m := range c.Minibuses {
		if m.ID == "" {
			return fmt.Errorf("fleet: minibus id must be non-empty")
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("fleet: duplicate vehicle id %s", m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.Home == "" {
			return fmt.Errorf("fleet: minibus %s has no home station", m.ID)
		}
	}
	return nil
}

// Build constructs the fleet.
func (c FleetConfig) Build() ([]*model.Vehicle, error) {
	fleet := make([]*model.Vehicle, 0, len(c.Buses)+len(c.Minibuses))
	for _, b := range c.Buses {
		schedule := make([]model.ScheduledStop, len(b.Schedule))
		for i, s := range b.Schedule {
			schedule[i] = model.ScheduledStop{
				Station: s.Station,
				At:      time.Duration(s.AtSeconds * float64(time.Second)),
			}
		}
		bus, err := model.NewBus(b.ID, b.Capacity, schedule)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, bus)
	}
	for _, m := range c.Minibuses {
		mb, err := model.NewMinibus(m.ID, m.Capacity, m.Home)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, mb)
	}
	return fleet, nil
}
