package config

import (
	"os"
	"path/filepath"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `simulation:
  horizon_seconds: 3600
  optimize_interval_seconds: 30
  timeout_seconds: 900
  seed: 42
network:
  stations: ["A", "B", "C"]
  edges:
    - {from: "A", to: "B", seconds: 300}
    - {from: "B", to: "C", seconds: 420}
fleet:
  buses:
    - id: "bus-1"
      capacity: 40
      schedule:
        - {station: "A", at_seconds: 0}
        - {station: "B", at_seconds: 300}
  minibuses:
    - {id: "mb-1", capacity: 8, home: "C"}
demand:
  id_prefix: "P"
  rates:
    - {origin: "A", destination: "C", per_hour: 12}
logging:
  level: "debug"
metrics:
  prometheus:
    enabled: true
    addr: ":9100"
stream:
  enabled: true
  broker: "tcp://localhost:1883"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"horizon", cfg.Simulation.HorizonSeconds, 3600},
		{"interval", cfg.Simulation.OptimizeIntervalSeconds, 30},
		{"timeout", cfg.Simulation.TimeoutSeconds, 900},
		{"seed", cfg.Simulation.Seed, uint64(42)},
		{"stations", len(cfg.Network.Stations), 3},
		{"edges", len(cfg.Network.Edges), 2},
		{"bus_capacity", cfg.Fleet.Buses[0].Capacity, 40},
		{"bus_schedule", len(cfg.Fleet.Buses[0].Schedule), 2},
		{"minibus_home", cfg.Fleet.Minibuses[0].Home, "C"},
		{"rate", cfg.Demand.Rates[0].PerHour, float64(12)},
		{"log_level", cfg.Logging.Level, "debug"},
		{"prom_enabled", cfg.Metrics.Prometheus.Enabled, true},
		{"prom_addr", cfg.Metrics.PromAddr(), ":9100"},
		{"stream_broker", cfg.Stream.Broker, "tcp://localhost:1883"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{
  "simulation": {"horizon_seconds": 3600},
  "network": {"stations": ["A"], "edges": []},
  "fleet": {"minibuses": [{"id": "mb-1", "capacity": 8, "home": "A"}]}
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("MT_SIMULATION__TIMEOUT_SECONDS", "120")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Simulation.TimeoutSeconds != 120 {
		t.Fatalf("expected env override 120, got %d", cfg.Simulation.TimeoutSeconds)
	}
}

func TestValidateRejectsEmptyFleet(t *testing.T) {
	cfg := Config{
		Simulation: SimulationConfig{HorizonSeconds: 10, OptimizeIntervalSeconds: 1, TimeoutSeconds: 1},
		Network:    NetworkConfig{Stations: []string{"A"}},
		Logging:    LoggingConfig{Level: "info"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty fleet")
	}
}
