package network

import (
	"errors"
	"testing"
	"time"
)

func TestDurationLookup(t *testing.T) {
	net, err := New([]string{"A", "B"})
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	if err := net.SetDuration("A", "B", 300*time.Second); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	d, err := net.Duration("A", "B")
	if err != nil {
		t.Fatalf("duration: %v", err)
	}
	if d != 300*time.Second {
		t.Fatalf("duration %v, want 300s", d)
	}
}

func TestDurationSameStationIsZero(t *testing.T) {
	net, err := New([]string{"A"})
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	d, err := net.Duration("A", "A")
	if err != nil {
		t.Fatalf("duration: %v", err)
	}
	if d != 0 {
		t.Fatalf("same-station duration %v, want 0", d)
	}
}

func TestDurationIsDirectional(t *testing.T) {
	net, err := New([]string{"A", "B"})
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	if err := net.SetDuration("A", "B", 300*time.Second); err != nil {
		t.Fatalf("set duration: %v", err)
	}
	if _, err := net.Duration("B", "A"); !errors.Is(err, ErrUnknownPair) {
		t.Fatalf("reverse lookup err %v, want ErrUnknownPair", err)
	}
}

func TestUnknownStation(t *testing.T) {
	net, err := New([]string{"A"})
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	if _, err := net.Duration("A", "Z"); !errors.Is(err, ErrUnknownStation) {
		t.Fatalf("lookup err %v, want ErrUnknownStation", err)
	}
	if err := net.SetDuration("Z", "A", time.Second); !errors.Is(err, ErrUnknownStation) {
		t.Fatalf("set err %v, want ErrUnknownStation", err)
	}
	if net.HasStation("Z") {
		t.Fatalf("HasStation(Z) must be false")
	}
}

func TestNewRejectsBadStationLists(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("empty station list must fail")
	}
	if _, err := New([]string{"A", "A"}); err == nil {
		t.Fatalf("duplicate station must fail")
	}
	if _, err := New([]string{""}); err == nil {
		t.Fatalf("empty station id must fail")
	}
}

func TestStationsSorted(t *testing.T) {
	net, err := New([]string{"C", "A", "B"})
	if err != nil {
		t.Fatalf("new network: %v", err)
	}
	got := net.Stations()
	want := []string{"A", "B", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stations %v, want %v", got, want)
		}
	}
}
