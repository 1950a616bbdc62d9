// Package scenarios runs end-to-end simulation scenarios described in YAML
// fixtures: network, fleet, scripted requests and the outcome they must
// produce.
package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Jingren-Tang/minitransit/core/model"
	"github.com/Jingren-Tang/minitransit/core/network"
	"github.com/Jingren-Tang/minitransit/core/sim"
)

type SimulationDef struct {
	HorizonSeconds          int `yaml:"horizon_seconds"`
	OptimizeIntervalSeconds int `yaml:"optimize_interval_seconds"`
	TimeoutSeconds          int `yaml:"timeout_seconds"`
}

func (s SimulationDef) ToParams() sim.Params {
	return sim.Params{
		Horizon:          time.Duration(s.HorizonSeconds) * time.Second,
		OptimizeInterval: time.Duration(s.OptimizeIntervalSeconds) * time.Second,
		TimeoutThreshold: time.Duration(s.TimeoutSeconds) * time.Second,
	}
}

type EdgeDef struct {
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Seconds float64 `yaml:"seconds"`
}

type NetworkDef struct {
	Stations []string  `yaml:"stations"`
	Edges    []EdgeDef `yaml:"edges"`
}

func (n NetworkDef) Build() (*network.Network, error) {
	net, err := network.New(n.Stations)
	if err != nil {
		return nil, err
	}
	for _, e := range n.Edges {
		d := time.Duration(e.Seconds * float64(time.Second))
		if err := net.SetDuration(e.From, e.To, d); err != nil {
			return nil, err
		}
	}
	return net, nil
}

type TimetableStopDef struct {
	Station   string  `yaml:"station"`
	AtSeconds float64 `yaml:"at_seconds"`
}

type BusDef struct {
	ID       string             `yaml:"id"`
	Capacity int                `yaml:"capacity"`
	Schedule []TimetableStopDef `yaml:"schedule"`
}

type MinibusDef struct {
	ID       string `yaml:"id"`
	Capacity int    `yaml:"capacity"`
	Home     string `yaml:"home"`
}

type FleetDef struct {
	Buses     []BusDef     `yaml:"buses"`
	Minibuses []MinibusDef `yaml:"minibuses"`
}

func (f FleetDef) Build() ([]*model.Vehicle, error) {
	var fleet []*model.Vehicle
	for _, b := range f.Buses {
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
	for _, m := range f.Minibuses {
		mb, err := model.NewMinibus(m.ID, m.Capacity, m.Home)
		if err != nil {
			return nil, err
		}
		fleet = append(fleet, mb)
	}
	return fleet, nil
}

type RequestDef struct {
	ID            string  `yaml:"id"`
	Origin        string  `yaml:"origin"`
	Destination   string  `yaml:"destination"`
	AppearSeconds float64 `yaml:"appear_seconds"`
}

func (r RequestDef) ToModel() model.TripRequest {
	return model.TripRequest{
		ID:          r.ID,
		Origin:      r.Origin,
		Destination: r.Destination,
		AppearTime:  time.Duration(r.AppearSeconds * float64(time.Second)),
	}
}

type Expected struct {
	Arrived  int `yaml:"arrived"`
	TimedOut int `yaml:"timed_out"`
	Waiting  int `yaml:"waiting"`
	Onboard  int `yaml:"onboard"`
}

type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Simulation  SimulationDef `yaml:"simulation"`
	Network     NetworkDef    `yaml:"network"`
	Fleet       FleetDef      `yaml:"fleet"`
	Requests    []RequestDef  `yaml:"requests"`
	Expected    Expected      `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	return &sc, nil
}
