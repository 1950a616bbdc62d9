// Package export writes run artifacts to files: a JSON report with the
// final counts and a CSV dump of the observation stream.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/Jingren-Tang/minitransit/core/sim"
	"github.com/Jingren-Tang/minitransit/core/stats"
)

// Report bundles the outcome of one run.
type Report struct {
	RunID   string        `json:"run_id"`
	Result  sim.Result    `json:"result"`
	Summary stats.Summary `json:"summary"`
}

// WriteJSON writes the report to w in indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes the observation stream to w, one row per record.
// Passenger id lists are joined with ";".
func WriteCSV(w io.Writer, obs []sim.Observation) error {
	cw := csv.NewWriter(w)
	header := []string{"time_seconds", "event_kind", "vehicle_id", "station_id", "passenger_id", "boarded_ids", "alighted_ids", "occupancy"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, o := range obs {
		rec := []string{
			strconv.FormatFloat(o.Time.Seconds(), 'f', -1, 64),
			o.Kind,
			o.VehicleID,
			o.StationID,
			o.PassengerID,
			strings.Join(o.Boarded, ";"),
			strings.Join(o.Alighted, ";"),
			strconv.Itoa(o.Occupancy),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Recorder retains the observation stream for export after the run. The
// engine calls observers synchronously, so no locking is needed.
type Recorder struct {
	obs []sim.Observation
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Observe implements sim.Observer.
func (r *Recorder) Observe(o sim.Observation) { r.obs = append(r.obs, o) }

// Observations returns the recorded stream in arrival order.
func (r *Recorder) Observations() []sim.Observation { return r.obs }
