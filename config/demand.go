package config

import (
	"fmt"
	"time"

	"github.com/Jingren-Tang/minitransit/core/demand"
	"github.com/Jingren-Tang/minitransit/core/model"
	"github.com/Jingren-Tang/minitransit/core/network"
)

// RateConfig is the hourly request intensity of one origin-destination pair.
type RateConfig struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	PerHour     float64 `json:"per_hour"`
}

// RequestConfig is one scripted trip request.
type RequestConfig struct {
	ID            string  `json:"id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	AppearSeconds float64 `json:"appear_seconds"`
}

// DemandConfig declares where trip requests come from. Scripted requests
// and Poisson rates can be combined; both feed the same queue.
type DemandConfig struct {
	IDPrefix string          `json:"id_prefix"`
	Rates    []RateConfig    `json:"rates"`
	Requests []RequestConfig `json:"requests"`
}

// Validate checks mandatory fields.
func (c DemandConfig) Validate() error {
	for _, r := range c.Rates {
		if r.Origin == "" || r.Destination == "" {
			return fmt.Errorf("demand: rate endpoints must be non-empty")
		}
		if r.PerHour <= 0 {
			return fmt.Errorf("demand: rate %s->%s must be positive, got %v", r.Origin, r.Destination, r.PerHour)
		}
	}
	for _, r := range c.Requests {
		if r.ID == "" {
			return fmt.Errorf("demand: request id must be non-empty")
		}
		if r.AppearSeconds < 0 {
			return fmt.Errorf("demand: request %s appears before the run starts", r.ID)
		}
	}
	return nil
}

// Build constructs the demand sources for one run. The scripted fixture
// comes first so replayed requests keep their ids.
func (c DemandConfig) Build(net *network.Network, seed uint64, horizon time.Duration) ([]demand.Source, error) {
	var sources []demand.Source
	if len(c.Requests) > 0 {
		fixture := make(demand.Fixture, len(c.Requests))
		for i, r := range c.Requests {
			fixture[i] = model.TripRequest{
				ID:          r.ID,
				Origin:      r.Origin,
				Destination: r.Destination,
				AppearTime:  time.Duration(r.AppearSeconds * float64(time.Second)),
			}
		}
		sources = append(sources, fixture)
	}
	if len(c.Rates) > 0 {
		rates := make([]demand.ODRate, len(c.Rates))
		for i, r := range c.Rates {
			rates[i] = demand.ODRate{Origin: r.Origin, Destination: r.Destination, PerHour: r.PerHour}
		}
		gen, err := demand.NewGenerator(demand.Config{
			Seed:     seed,
			IDPrefix: c.IDPrefix,
			Horizon:  horizon,
			Rates:    rates,
		}, net)
		if err != nil {
			return nil, err
		}
		sources = append(sources, gen)
	}
	return sources, nil
}
