// Package stats aggregates the engine's observation stream into run-level
// figures. It sits outside the simulation core: removing it changes nothing
// about a run's behaviour.
package stats

import (
	"time"

	"github.com/Jingren-Tang/minitransit/core/sim"
)

// Summary holds the aggregated figures of one run.
type Summary struct {
	Events        int           `json:"events"`
	Appeared      int           `json:"appeared"`
	Boardings     int           `json:"boardings"`
	Alightings    int           `json:"alightings"`
	AvgWaitTime   time.Duration `json:"avg_wait_time"`
	AvgTravelTime time.Duration `json:"avg_travel_time"`
	PeakOccupancy int           `json:"peak_occupancy"`
}

// Collector implements sim.Observer and accumulates per-passenger timings
// from the stream alone: appearance timestamps keyed by passenger id, wait
// time on boarding, travel time on alighting.
type Collector struct {
	summary Summary

	appearAt map[string]time.Duration
	boardAt  map[string]time.Duration

	waitSum   time.Duration
	travelSum time.Duration
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		appearAt: make(map[string]time.Duration),
		boardAt:  make(map[string]time.Duration),
	}
}

// Observe implements sim.Observer.
func (c *Collector) Observe(o sim.Observation) {
	c.summary.Events++
	if o.PassengerID != "" {
		c.summary.Appeared++
		c.appearAt[o.PassengerID] = o.Time
	}
	for _, pid := range o.Boarded {
		c.summary.Boardings++
		c.boardAt[pid] = o.Time
		if appeared, ok := c.appearAt[pid]; ok {
			c.waitSum += o.Time - appeared
		}
	}
	for _, pid := range o.Alighted {
		c.summary.Alightings++
		if boarded, ok := c.boardAt[pid]; ok {
			c.travelSum += o.Time - boarded
		}
	}
	if o.Occupancy > c.summary.PeakOccupancy {
		c.summary.PeakOccupancy = o.Occupancy
	}
}

// Summary returns the aggregated figures collected so far.
func (c *Collector) Summary() Summary {
	s := c.summary
	if s.Boardings > 0 {
		s.AvgWaitTime = c.waitSum / time.Duration(s.Boardings)
	}
	if s.Alightings > 0 {
		s.AvgTravelTime = c.travelSum / time.Duration(s.Alightings)
	}
	return s
}
