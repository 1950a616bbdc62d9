package scenarios

import (
	"context"
	"testing"

	"github.com/Jingren-Tang/minitransit/core/optimizer"
	"github.com/Jingren-Tang/minitransit/core/sim"
	"github.com/Jingren-Tang/minitransit/core/stats"
	"github.com/Jingren-Tang/minitransit/infra/logger"
)

// RunScenario executes one scenario with the greedy planner and checks the
// expected passenger outcome counts.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()

	net, err := sc.Network.Build()
	if err != nil {
		t.Fatalf("network: %v", err)
	}
	fleet, err := sc.Fleet.Build()
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	collector := stats.NewCollector()
	engine, err := sim.NewEngine(net, fleet, optimizer.NewGreedyInsertion(nil),
		sc.Simulation.ToParams(), logger.NopLogger{}, collector)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	for _, r := range sc.Requests {
		if err := engine.EnqueuePassenger(r.ToModel()); err != nil {
			t.Fatalf("enqueue %s: %v", r.ID, err)
		}
	}

	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.PassengersArrived != sc.Expected.Arrived {
		t.Errorf("arrived %d, want %d", res.PassengersArrived, sc.Expected.Arrived)
	}
	if res.PassengersTimedOut != sc.Expected.TimedOut {
		t.Errorf("timed out %d, want %d", res.PassengersTimedOut, sc.Expected.TimedOut)
	}
	if res.PassengersWaiting != sc.Expected.Waiting {
		t.Errorf("waiting %d, want %d", res.PassengersWaiting, sc.Expected.Waiting)
	}
	if res.PassengersOnboard != sc.Expected.Onboard {
		t.Errorf("onboard %d, want %d", res.PassengersOnboard, sc.Expected.Onboard)
	}
	if got := collector.Summary().Events; got != res.EventsProcessed {
		t.Errorf("collector saw %d events, engine processed %d", got, res.EventsProcessed)
	}
}
