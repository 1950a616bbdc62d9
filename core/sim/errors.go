package sim

import "fmt"

// LookupError signals that an event referenced an unknown station, vehicle
// or passenger. It indicates a data inconsistency and aborts the run rather
// than corrupting state by skipping.
type LookupError struct {
	Kind string // "station", "vehicle" or "passenger"
	ID   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

// InvariantError reports a broken internal invariant: a boarding past
// capacity, a dropoff naming a passenger not onboard, or a clock decrease.
// It must never occur when handlers and the optimizer honor their contracts.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string { return "invariant violation: " + e.Msg }

func invariantf(format string, args ...any) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}
