// Package metrics exports the observation stream to monitoring backends.
// Every sink implements sim.Observer and can be composed with
// sim.MultiObserver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Jingren-Tang/minitransit/core/sim"
)

// PromObserver records simulation events in Prometheus metrics.
type PromObserver struct {
	events     *prometheus.CounterVec
	boardings  *prometheus.CounterVec
	alightings *prometheus.CounterVec
	occupancy  *prometheus.GaugeVec
}

// NewPromObserver registers the simulation collectors on the provided
// registerer. If reg is nil the default registerer is used; collectors that
// are already registered are reused.
func NewPromObserver(reg prometheus.Registerer) (*PromObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_events_total",
		Help: "Total number of processed simulation events",
	}, []string{"kind"})
	boardings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_boardings_total",
		Help: "Total number of passenger boardings",
	}, []string{"vehicle_id"})
	alightings := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "transit_alightings_total",
		Help: "Total number of passenger alightings",
	}, []string{"vehicle_id"})
	occupancy := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "transit_vehicle_occupancy",
		Help: "Current number of passengers onboard",
	}, []string{"vehicle_id"})

	collectors := []prometheus.Collector{events, boardings, alightings, occupancy}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromObserver{
		events:     collectors[0].(*prometheus.CounterVec),
		boardings:  collectors[1].(*prometheus.CounterVec),
		alightings: collectors[2].(*prometheus.CounterVec),
		occupancy:  collectors[3].(*prometheus.GaugeVec),
	}, nil
}

// Observe implements sim.Observer.
func (p *PromObserver) Observe(o sim.Observation) {
	p.events.WithLabelValues(o.Kind).Inc()
	if o.VehicleID == "" {
		return
	}
	if len(o.Boarded) > 0 {
		p.boardings.WithLabelValues(o.VehicleID).Add(float64(len(o.Boarded)))
	}
	if len(o.Alighted) > 0 {
		p.alightings.WithLabelValues(o.VehicleID).Add(float64(len(o.Alighted)))
	}
	p.occupancy.WithLabelValues(o.VehicleID).Set(float64(o.Occupancy))
}
