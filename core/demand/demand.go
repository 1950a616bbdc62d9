// Package demand produces passenger trip requests for the simulation. It is
// a boundary collaborator: the engine only sees the resulting TripRequest
// tuples through its EnqueuePassenger integration point and is indifferent
// to how they were generated.
package demand

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/Jingren-Tang/minitransit/core/model"
	"github.com/Jingren-Tang/minitransit/core/network"
)

// Source supplies the trip requests for one run.
type Source interface {
	Requests() ([]model.TripRequest, error)
}

// Fixture is a Source over a fixed request list, used in tests and replay.
type Fixture []model.TripRequest

// Requests returns the fixed list sorted by appear time, ties by id.
func (f Fixture) Requests() ([]model.TripRequest, error) {
	out := append([]model.TripRequest(nil), f...)
	sortRequests(out)
	return out, nil
}

// ODRate is the demand intensity of one origin-destination pair.
type ODRate struct {
	Origin      string
	Destination string
	PerHour     float64
}

// Config parameterizes the Poisson generator.
type Config struct {
	// Seed makes generation reproducible: equal seeds yield identical
	// request streams.
	Seed uint64
	// IDPrefix prefixes sequential passenger ids; when empty, random
	// UUIDs are issued instead.
	IDPrefix string
	// Horizon bounds the appear times of generated requests.
	Horizon time.Duration
	Rates   []ODRate
}

// Generator samples passenger arrivals as independent Poisson processes,
// one per OD pair, via exponential inter-arrival gaps.
type Generator struct {
	cfg Config
}

// NewGenerator validates the OD matrix against the network.
func NewGenerator(cfg Config, net *network.Network) (*Generator, error) {
	if cfg.Horizon <= 0 {
		return nil, fmt.Errorf("demand: horizon must be positive, got %v", cfg.Horizon)
	}
	for _, r := range cfg.Rates {
		if !net.HasStation(r.Origin) {
			return nil, fmt.Errorf("demand: %w: %s", network.ErrUnknownStation, r.Origin)
		}
		if !net.HasStation(r.Destination) {
			return nil, fmt.Errorf("demand: %w: %s", network.ErrUnknownStation, r.Destination)
		}
		if r.Origin == r.Destination {
			return nil, fmt.Errorf("demand: OD pair %s->%s has equal endpoints", r.Origin, r.Destination)
		}
		if r.PerHour <= 0 {
			return nil, fmt.Errorf("demand: rate for %s->%s must be positive, got %f", r.Origin, r.Destination, r.PerHour)
		}
	}
	return &Generator{cfg: cfg}, nil
}

// Requests implements Source. OD pairs are processed in configuration order
// with a single seeded source, so the stream is a pure function of the
// configuration: ids too, since UUIDs are drawn from the same seeded source.
func (g *Generator) Requests() ([]model.TripRequest, error) {
	rng := rand.New(rand.NewPCG(g.cfg.Seed, g.cfg.Seed))
	var out []model.TripRequest
	n := 0
	for _, r := range g.cfg.Rates {
		exp := distuv.Exponential{Rate: r.PerHour / 3600.0, Src: rng}
		t := 0.0
		for {
			t += exp.Rand()
			appear := time.Duration(t * float64(time.Second))
			if appear >= g.cfg.Horizon {
				break
			}
			n++
			id, err := g.nextID(n, rng)
			if err != nil {
				return nil, err
			}
			out = append(out, model.TripRequest{
				ID:          id,
				Origin:      r.Origin,
				Destination: r.Destination,
				AppearTime:  appear,
			})
		}
	}
	sortRequests(out)
	return out, nil
}

func (g *Generator) nextID(n int, rng *rand.Rand) (string, error) {
	if g.cfg.IDPrefix != "" {
		return fmt.Sprintf("%s%04d", g.cfg.IDPrefix, n), nil
	}
	id, err := uuid.NewRandomFromReader(rngReader{rng})
	if err != nil {
		return "", fmt.Errorf("demand: generate id: %w", err)
	}
	return id.String(), nil
}

// rngReader adapts the seeded source to io.Reader for UUID generation.
type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint64())
	}
	return len(p), nil
}

func sortRequests(reqs []model.TripRequest) {
	sort.Slice(reqs, func(a, b int) bool {
		if reqs[a].AppearTime != reqs[b].AppearTime {
			return reqs[a].AppearTime < reqs[b].AppearTime
		}
		return reqs[a].ID < reqs[b].ID
	})
}
