package model

import (
	"testing"
	"time"
)

func newTestPassenger(t *testing.T) *Passenger {
	t.Helper()
	p, err := NewPassenger(TripRequest{ID: "P1", Origin: "A", Destination: "B", AppearTime: 10 * time.Second})
	if err != nil {
		t.Fatalf("new passenger: %v", err)
	}
	return p
}

func TestTripRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     TripRequest
		wantErr bool
	}{
		{"valid", TripRequest{ID: "P1", Origin: "A", Destination: "B"}, false},
		{"empty id", TripRequest{Origin: "A", Destination: "B"}, true},
		{"same endpoints", TripRequest{ID: "P1", Origin: "A", Destination: "A"}, true},
		{"negative appear", TripRequest{ID: "P1", Origin: "A", Destination: "B", AppearTime: -time.Second}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("got err %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestPassengerMinibusLifecycle(t *testing.T) {
	p := newTestPassenger(t)
	if p.Status != Waiting {
		t.Fatalf("new passenger status %s, want WAITING", p.Status)
	}
	if err := p.Assign("mb-1", 20*time.Second); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if p.Status != Assigned || p.AssignedVehicle != "mb-1" {
		t.Fatalf("after assign: status %s vehicle %q", p.Status, p.AssignedVehicle)
	}
	if err := p.Board("mb-1", 30*time.Second); err != nil {
		t.Fatalf("board: %v", err)
	}
	if err := p.Arrive(90 * time.Second); err != nil {
		t.Fatalf("arrive: %v", err)
	}
	if !p.Terminal() {
		t.Fatalf("arrived passenger not terminal")
	}
	if got := p.WaitTime(0); got != 20*time.Second {
		t.Fatalf("wait time %v, want 20s", got)
	}
	if got := p.TravelTime(); got != 60*time.Second {
		t.Fatalf("travel time %v, want 60s", got)
	}
}

func TestPassengerBusBoardsDirectly(t *testing.T) {
	p := newTestPassenger(t)
	if err := p.Board("bus-1", 15*time.Second); err != nil {
		t.Fatalf("board from waiting: %v", err)
	}
	if p.Status != Onboard || p.AssignedVehicle != "bus-1" {
		t.Fatalf("after board: status %s vehicle %q", p.Status, p.AssignedVehicle)
	}
}

func TestPassengerBoardWrongVehicle(t *testing.T) {
	p := newTestPassenger(t)
	if err := p.Assign("mb-1", 20*time.Second); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := p.Board("mb-2", 30*time.Second); err == nil {
		t.Fatalf("expected error boarding vehicle other than assignment")
	}
}

func TestPassengerIllegalTransitions(t *testing.T) {
	p := newTestPassenger(t)
	if err := p.Arrive(20 * time.Second); err == nil {
		t.Fatalf("arrive from waiting must fail")
	}
	if err := p.Board("mb-1", 20*time.Second); err != nil {
		t.Fatalf("board: %v", err)
	}
	if err := p.Assign("mb-2", 25*time.Second); err == nil {
		t.Fatalf("assign from onboard must fail")
	}
	if err := p.TimeOut(25 * time.Second); err == nil {
		t.Fatalf("timeout from onboard must fail")
	}
}

func TestPassengerTimeOut(t *testing.T) {
	p := newTestPassenger(t)
	if err := p.TimeOut(100 * time.Second); err != nil {
		t.Fatalf("timeout: %v", err)
	}
	if p.Status != TimedOut || !p.Terminal() {
		t.Fatalf("after timeout: status %s", p.Status)
	}
	if err := p.Board("bus-1", 110*time.Second); err == nil {
		t.Fatalf("board after timeout must fail")
	}
}
