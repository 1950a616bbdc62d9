package demand

import (
	"reflect"
	"testing"
	"time"

	"github.com/Jingren-Tang/minitransit/core/model"
	"github.com/Jingren-Tang/minitransit/core/network"
)

func testNetwork(t *testing.T) *network.Network {
	t.Helper()
	net, err := network.New([]string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	return net
}

func testConfig() Config {
	return Config{
		Seed:     42,
		IDPrefix: "P",
		Horizon:  2 * time.Hour,
		Rates: []ODRate{
			{Origin: "A", Destination: "B", PerHour: 30},
			{Origin: "B", Destination: "C", PerHour: 10},
		},
	}
}

func TestGeneratorIsDeterministic(t *testing.T) {
	net := testNetwork(t)
	gen, err := NewGenerator(testConfig(), net)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	first, err := gen.Requests()
	if err != nil {
		t.Fatalf("requests: %v", err)
	}
	second, err := gen.Requests()
	if err != nil {
		t.Fatalf("requests: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different streams")
	}
	if len(first) == 0 {
		t.Fatalf("no requests generated for 2h at 40/h total")
	}
}

func TestGeneratorSeedChangesStream(t *testing.T) {
	net := testNetwork(t)
	cfg := testConfig()
	gen1, err := NewGenerator(cfg, net)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	cfg.Seed = 43
	gen2, err := NewGenerator(cfg, net)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	first, _ := gen1.Requests()
	second, _ := gen2.Requests()
	if reflect.DeepEqual(first, second) {
		t.Fatalf("different seeds produced identical streams")
	}
}

func TestGeneratorOutputInvariants(t *testing.T) {
	net := testNetwork(t)
	cfg := testConfig()
	gen, err := NewGenerator(cfg, net)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	reqs, err := gen.Requests()
	if err != nil {
		t.Fatalf("requests: %v", err)
	}
	seen := make(map[string]struct{}, len(reqs))
	for i, r := range reqs {
		if err := r.Validate(); err != nil {
			t.Fatalf("request %d invalid: %v", i, err)
		}
		if r.AppearTime >= cfg.Horizon {
			t.Fatalf("request %s appears at %v, beyond horizon", r.ID, r.AppearTime)
		}
		if i > 0 && reqs[i-1].AppearTime > r.AppearTime {
			t.Fatalf("requests not sorted by appear time at %d", i)
		}
		if _, dup := seen[r.ID]; dup {
			t.Fatalf("duplicate request id %s", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
}

func TestGeneratorUUIDsAreSeeded(t *testing.T) {
	net := testNetwork(t)
	cfg := testConfig()
	cfg.IDPrefix = ""
	gen, err := NewGenerator(cfg, net)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	first, _ := gen.Requests()
	second, _ := gen.Requests()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("uuid ids are not reproducible for a fixed seed")
	}
}

func TestNewGeneratorValidation(t *testing.T) {
	net := testNetwork(t)
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero horizon", Config{Rates: []ODRate{{Origin: "A", Destination: "B", PerHour: 1}}}},
		{"unknown origin", Config{Horizon: time.Hour, Rates: []ODRate{{Origin: "Z", Destination: "B", PerHour: 1}}}},
		{"unknown destination", Config{Horizon: time.Hour, Rates: []ODRate{{Origin: "A", Destination: "Z", PerHour: 1}}}},
		{"equal endpoints", Config{Horizon: time.Hour, Rates: []ODRate{{Origin: "A", Destination: "A", PerHour: 1}}}},
		{"zero rate", Config{Horizon: time.Hour, Rates: []ODRate{{Origin: "A", Destination: "B", PerHour: 0}}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := NewGenerator(c.cfg, net); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestFixtureSortsRequests(t *testing.T) {
	f := Fixture{
		{ID: "P2", Origin: "A", Destination: "B", AppearTime: 20 * time.Second},
		{ID: "P1", Origin: "B", Destination: "C", AppearTime: 10 * time.Second},
	}
	reqs, err := f.Requests()
	if err != nil {
		t.Fatalf("requests: %v", err)
	}
	want := []model.TripRequest{f[1], f[0]}
	if !reflect.DeepEqual(reqs, want) {
		t.Fatalf("requests %v, want sorted %v", reqs, want)
	}
}
