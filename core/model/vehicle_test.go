package model

import (
	"testing"
	"time"
)

func TestNewBus(t *testing.T) {
	schedule := []ScheduledStop{
		{Station: "A", At: 0},
		{Station: "B", At: 300 * time.Second},
	}
	bus, err := NewBus("bus-1", 40, schedule)
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}
	if bus.CurrentStation != "A" || bus.Status != EnRoute || bus.Class != Bus {
		t.Fatalf("bus start state: station %s status %s class %s", bus.CurrentStation, bus.Status, bus.Class)
	}
	next, ok := bus.NextScheduled()
	if !ok || next.Station != "A" {
		t.Fatalf("next scheduled: %v ok=%v", next, ok)
	}
}

func TestNewBusRejectsDecreasingSchedule(t *testing.T) {
	schedule := []ScheduledStop{
		{Station: "A", At: 300 * time.Second},
		{Station: "B", At: 100 * time.Second},
	}
	if _, err := NewBus("bus-1", 40, schedule); err == nil {
		t.Fatalf("expected error for decreasing schedule times")
	}
}

func TestNewMinibus(t *testing.T) {
	mb, err := NewMinibus("mb-1", 8, "C")
	if err != nil {
		t.Fatalf("new minibus: %v", err)
	}
	if mb.Status != Idle || mb.CurrentStation != "C" || mb.Class != Minibus {
		t.Fatalf("minibus start state: station %s status %s class %s", mb.CurrentStation, mb.Status, mb.Class)
	}
	if _, ok := mb.NextScheduled(); ok {
		t.Fatalf("minibus must have no timetable")
	}
}

func TestOnboardCapacity(t *testing.T) {
	mb, err := NewMinibus("mb-1", 2, "A")
	if err != nil {
		t.Fatalf("new minibus: %v", err)
	}
	if err := mb.AddOnboard("P1"); err != nil {
		t.Fatalf("board P1: %v", err)
	}
	if err := mb.AddOnboard("P1"); err == nil {
		t.Fatalf("boarding the same passenger twice must fail")
	}
	if err := mb.AddOnboard("P2"); err != nil {
		t.Fatalf("board P2: %v", err)
	}
	if err := mb.AddOnboard("P3"); err == nil {
		t.Fatalf("boarding above capacity must fail")
	}
	if !mb.Carries("P1") || mb.OnboardCount() != 2 {
		t.Fatalf("onboard state: %v", mb.Onboard)
	}
	if err := mb.RemoveOnboard("P1"); err != nil {
		t.Fatalf("remove P1: %v", err)
	}
	if err := mb.RemoveOnboard("P1"); err == nil {
		t.Fatalf("removing absent passenger must fail")
	}
}
