package config

import (
	"fmt"
	"time"

	"github.com/Jingren-Tang/minitransit/core/network"
)

// EdgeConfig declares the travel time of one directed station pair.
type EdgeConfig struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Seconds float64 `json:"seconds"`
}

// NetworkConfig declares the station set and the directed travel times
// between them.
type NetworkConfig struct {
	Stations []string     `json:"stations"`
	Edges    []EdgeConfig `json:"edges"`
}

// Validate checks mandatory fields.
func (c NetworkConfig) Validate() error {
	if len(c.Stations) == 0 {
		return fmt.Errorf("network: at least one station is required")
	}
	for _, e := range c.Edges {
		if e.From == "" || e.To == "" {
			return fmt.Errorf("network: edge endpoints must be non-empty")
		}
		if e.Seconds < 0 {
			return fmt.Errorf("network: edge %s->%s has negative duration", e.From, e.To)
		}
	}
	return nil
}

// Build constructs the travel-time network.
func (c NetworkConfig) Build() (*network.Network, error) {
	net, err := network.New(c.Stations)
	if err != nil {
		return nil, err
	}
	for _, e := range c.Edges {
		d := time.Duration(e.Seconds * float64(time.Second))
		if err := net.SetDuration(e.From, e.To, d); err != nil {
			return nil, err
		}
	}
	return net, nil
}
