package metrics

import (
	"context"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Jingren-Tang/minitransit/core/sim"
	"github.com/Jingren-Tang/minitransit/infra/logger"
)

// InfluxObserver writes observation records to an InfluxDB instance using
// the official client. Simulation offsets are anchored to the wall-clock
// start of the run so points land on a real timeline.
type InfluxObserver struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	runID    string
	base     time.Time
	log      logger.Logger
}

// NewInfluxObserver creates an observer for the given InfluxDB endpoint.
func NewInfluxObserver(url, token, org, bucket, runID string) *InfluxObserver {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token, influxdb2.DefaultOptions())
	return &InfluxObserver{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		runID:    runID,
		base:     time.Now(),
		log:      logger.New("influx-observer"),
	}
}

// NewInfluxObserverWithFallback pings the instance first and returns a
// NopObserver when the health check fails, so a missing backend never
// aborts a run.
func NewInfluxObserverWithFallback(url, token, org, bucket, runID string) sim.Observer {
	obs := NewInfluxObserver(url, token, org, bucket, runID)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := obs.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			obs.log.Errorf("influx health check error: %v", err)
		} else {
			obs.log.Errorf("influx health status: %s", health.Status)
		}
		obs.client.Close()
		return sim.NopObserver{}
	}
	return obs
}

// Observe implements sim.Observer.
func (s *InfluxObserver) Observe(o sim.Observation) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("transit_event").
		AddTag("run_id", s.runID).
		AddTag("event_kind", o.Kind).
		AddField("occupancy", o.Occupancy).
		AddField("boarded", len(o.Boarded)).
		AddField("alighted", len(o.Alighted)).
		AddField("sim_time_seconds", o.Time.Seconds()).
		SetTime(s.base.Add(o.Time))
	if o.VehicleID != "" {
		p.AddTag("vehicle_id", o.VehicleID)
	}
	if o.StationID != "" {
		p.AddTag("station_id", o.StationID)
	}
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		s.log.Errorf("influx write: %v", err)
	}
}

// Close releases the underlying client.
func (s *InfluxObserver) Close() { s.client.Close() }
