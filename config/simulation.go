package config

import (
	"fmt"
	"time"

	"github.com/Jingren-Tang/minitransit/core/sim"
)

// SimulationConfig controls the run length and scheduling cadence.
// All durations are expressed in seconds of simulated time.
type SimulationConfig struct {
	HorizonSeconds          int    `json:"horizon_seconds"`
	OptimizeIntervalSeconds int    `json:"optimize_interval_seconds"`
	TimeoutSeconds          int    `json:"timeout_seconds"`
	Seed                    uint64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.OptimizeIntervalSeconds <= 0 {
		c.OptimizeIntervalSeconds = 60
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 1800
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

// Validate checks mandatory fields.
func (c SimulationConfig) Validate() error {
	if c.HorizonSeconds <= 0 {
		return fmt.Errorf("simulation: horizon_seconds must be positive, got %d", c.HorizonSeconds)
	}
	if c.OptimizeIntervalSeconds <= 0 {
		return fmt.Errorf("simulation: optimize_interval_seconds must be positive, got %d", c.OptimizeIntervalSeconds)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("simulation: timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

// Horizon returns the run length as a duration.
func (c SimulationConfig) Horizon() time.Duration {
	return time.Duration(c.HorizonSeconds) * time.Second
}

// Params converts the section to engine parameters.
func (c SimulationConfig) Params() sim.Params {
	return sim.Params{
		Horizon:          c.Horizon(),
		OptimizeInterval: time.Duration(c.OptimizeIntervalSeconds) * time.Second,
		TimeoutThreshold: time.Duration(c.TimeoutSeconds) * time.Second,
	}
}
