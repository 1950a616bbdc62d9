package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jingren-Tang/minitransit/config"
	"github.com/Jingren-Tang/minitransit/pkg/export"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `simulation:
  horizon_seconds: 5000
  optimize_interval_seconds: 60
  timeout_seconds: 600
network:
  stations: [A, B, C]
  edges:
    - {from: A, to: B, seconds: 300}
    - {from: B, to: A, seconds: 300}
    - {from: A, to: C, seconds: 600}
    - {from: C, to: A, seconds: 600}
    - {from: B, to: C, seconds: 420}
    - {from: C, to: B, seconds: 420}
fleet:
  minibuses:
    - {id: mb-1, capacity: 8, home: A}
demand:
  requests:
    - {id: P1, origin: B, destination: C, appear_seconds: 0}
report:
  path: ` + filepath.Join(dir, "report.json") + `
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestServiceRunWritesReport(t *testing.T) {
	cfg := testConfig(t)
	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := svc.Summary().Boardings; got != 1 {
		t.Fatalf("boardings %d, want 1", got)
	}

	data, err := os.ReadFile(cfg.Report.Path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report export.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if report.RunID != svc.RunID {
		t.Fatalf("report run id %s, want %s", report.RunID, svc.RunID)
	}
	if report.Result.PassengersArrived != 1 {
		t.Fatalf("report arrived %d, want 1", report.Result.PassengersArrived)
	}
	if _, err := os.Stat(cfg.Report.CSVPath()); err != nil {
		t.Fatalf("observation csv missing: %v", err)
	}
}
