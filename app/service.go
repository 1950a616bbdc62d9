// Package app assembles the simulation from configuration: network, fleet,
// demand, optimizer and observation sinks.
package app

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/Jingren-Tang/minitransit/config"
	"github.com/Jingren-Tang/minitransit/core/network"
	"github.com/Jingren-Tang/minitransit/core/optimizer"
	"github.com/Jingren-Tang/minitransit/core/sim"
	"github.com/Jingren-Tang/minitransit/core/stats"
	"github.com/Jingren-Tang/minitransit/infra/logger"
	"github.com/Jingren-Tang/minitransit/infra/metrics"
	"github.com/Jingren-Tang/minitransit/infra/stream"
	"github.com/Jingren-Tang/minitransit/internal/eventbus"
	"github.com/Jingren-Tang/minitransit/pkg/export"
)

// Service orchestrates one simulation run.
type Service struct {
	RunID string

	cfg       *config.Config
	net       *network.Network
	engine    *sim.Engine
	collector *stats.Collector
	recorder  *export.Recorder
	bus       *eventbus.Bus
	publisher *stream.Publisher
	influx    *metrics.InfluxObserver
	log       logger.Logger

	wg sync.WaitGroup
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	cfg.Logging.Apply()
	logg := logger.New("service")
	runID := uuid.NewString()

	net, err := cfg.Network.Build()
	if err != nil {
		return nil, fmt.Errorf("network: %w", err)
	}
	fleet, err := cfg.Fleet.Build()
	if err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}

	svc := &Service{
		RunID:     runID,
		cfg:       cfg,
		net:       net,
		collector: stats.NewCollector(),
		bus:       eventbus.New(),
		log:       logg,
	}

	observers := sim.MultiObserver{svc.collector, svc.bus}
	if cfg.Report.Enabled() {
		svc.recorder = export.NewRecorder()
		observers = append(observers, svc.recorder)
	}
	if cfg.Metrics.Prometheus.Enabled {
		prom, err := metrics.NewPromObserver(nil)
		if err != nil {
			return nil, fmt.Errorf("prom observer: %w", err)
		}
		observers = append(observers, prom)
	}
	if cfg.Metrics.Influx.Enabled {
		obs := metrics.NewInfluxObserverWithFallback(
			cfg.Metrics.Influx.URL,
			cfg.Metrics.Influx.Token,
			cfg.Metrics.Influx.Org,
			cfg.Metrics.Influx.Bucket,
			runID,
		)
		if influx, ok := obs.(*metrics.InfluxObserver); ok {
			svc.influx = influx
		}
		observers = append(observers, obs)
	}
	if cfg.Stream.Enabled {
		pub, err := stream.NewPublisher(cfg.Stream, runID)
		if err != nil {
			return nil, fmt.Errorf("stream publisher: %w", err)
		}
		svc.publisher = pub
	}

	opt := optimizer.NewGreedyInsertion(logger.New("optimizer"))
	engine, err := sim.NewEngine(net, fleet, opt, cfg.Simulation.Params(), logger.New("engine"), observers)
	if err != nil {
		return nil, err
	}
	svc.engine = engine
	return svc, nil
}

// Run executes the simulation and blocks until it finishes or the context
// is canceled. Side servers (Prometheus, MQTT drain) live for the duration
// of the call.
func (s *Service) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.cfg.Metrics.Prometheus.Enabled {
		go func() {
			if err := metrics.StartPromServer(runCtx, s.cfg.Metrics.PromAddr(), s.log); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.publisher != nil {
		sub := s.bus.Subscribe(256)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for o := range sub {
				s.publisher.Observe(o)
			}
		}()
	}

	sources, err := s.cfg.Demand.Build(s.net, s.cfg.Simulation.Seed, s.cfg.Simulation.Horizon())
	if err != nil {
		return fmt.Errorf("demand: %w", err)
	}
	total := 0
	for _, src := range sources {
		reqs, err := src.Requests()
		if err != nil {
			return fmt.Errorf("demand: %w", err)
		}
		for _, req := range reqs {
			if err := s.engine.EnqueuePassenger(req); err != nil {
				return fmt.Errorf("enqueue %s: %w", req.ID, err)
			}
		}
		total += len(reqs)
	}
	s.log.Infof("run %s: %d requests enqueued, horizon %v", s.RunID, total, s.cfg.Simulation.Horizon())

	result, err := s.engine.Run(runCtx)
	if err != nil {
		return err
	}
	summary := s.collector.Summary()
	s.log.Infof("run %s finished at %v: %d events, %d arrived, %d timed out, %d onboard, %d waiting",
		s.RunID, result.EndTime, result.EventsProcessed,
		result.PassengersArrived, result.PassengersTimedOut,
		result.PassengersOnboard, result.PassengersWaiting)
	s.log.Infof("run %s stats: avg wait %v, avg travel %v, peak occupancy %d",
		s.RunID, summary.AvgWaitTime, summary.AvgTravelTime, summary.PeakOccupancy)
	if dropped := s.bus.Dropped(); dropped > 0 {
		s.log.Warnf("run %s: %d stream records dropped", s.RunID, dropped)
	}
	if s.recorder != nil {
		if err := s.writeReport(result, summary); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

func (s *Service) writeReport(result sim.Result, summary stats.Summary) error {
	f, err := os.Create(s.cfg.Report.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	report := export.Report{RunID: s.RunID, Result: result, Summary: summary}
	if err := export.WriteJSON(f, report); err != nil {
		return err
	}
	csvFile, err := os.Create(s.cfg.Report.CSVPath())
	if err != nil {
		return err
	}
	defer csvFile.Close()
	if err := export.WriteCSV(csvFile, s.recorder.Observations()); err != nil {
		return err
	}
	s.log.Infof("report written to %s", s.cfg.Report.Path)
	return nil
}

// Summary returns the aggregated run statistics.
func (s *Service) Summary() stats.Summary { return s.collector.Summary() }

// Close releases the observation sinks.
func (s *Service) Close() error {
	s.bus.Close()
	s.wg.Wait()
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.influx != nil {
		s.influx.Close()
	}
	return nil
}
