package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Jingren-Tang/minitransit/core/sim"
	"github.com/Jingren-Tang/minitransit/core/stats"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	report := Report{
		RunID:   "run-1",
		Result:  sim.Result{EventsProcessed: 12, PassengersArrived: 3},
		Summary: stats.Summary{Boardings: 3, AvgWaitTime: 30 * time.Second},
	}
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var back Report
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.RunID != "run-1" || back.Result.PassengersArrived != 3 || back.Summary.Boardings != 3 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	obs := []sim.Observation{
		{Time: 10 * time.Second, Kind: "BUS_ARRIVAL", VehicleID: "bus-1", StationID: "A", Boarded: []string{"P1", "P2"}, Occupancy: 2},
		{Time: 310 * time.Second, Kind: "BUS_ARRIVAL", VehicleID: "bus-1", StationID: "B", Alighted: []string{"P1"}, Occupancy: 1},
	}
	if err := WriteCSV(&buf, obs); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines %d, want header plus 2 rows", len(lines))
	}
	if !strings.Contains(lines[1], "P1;P2") {
		t.Fatalf("boarded ids not joined: %s", lines[1])
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Observe(sim.Observation{Kind: "PASSENGER_APPEAR"})
	r.Observe(sim.Observation{Kind: "SIMULATION_END"})
	got := r.Observations()
	if len(got) != 2 || got[0].Kind != "PASSENGER_APPEAR" {
		t.Fatalf("recorded %v", got)
	}
}
