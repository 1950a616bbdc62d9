// Package sim implements the discrete-event simulation core: the
// time-ordered event queue, the per-event vehicle and passenger state
// machines and the engine loop driving them.
package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Jingren-Tang/minitransit/core/logger"
	"github.com/Jingren-Tang/minitransit/core/model"
	"github.com/Jingren-Tang/minitransit/core/network"
	"github.com/Jingren-Tang/minitransit/core/optimizer"
)

// Params are the engine's run parameters.
type Params struct {
	// Horizon is the simulation end time; a SIMULATION_END event is
	// scheduled there and discards everything still queued.
	Horizon time.Duration
	// OptimizeInterval is the spacing of OPTIMIZE_CALL events.
	OptimizeInterval time.Duration
	// TimeoutThreshold is how long a passenger stays WAITING before
	// giving up.
	TimeoutThreshold time.Duration
}

// Validate checks the parameters at initialization.
func (p Params) Validate() error {
	if p.Horizon <= 0 {
		return fmt.Errorf("params: horizon must be positive, got %v", p.Horizon)
	}
	if p.OptimizeInterval <= 0 {
		return fmt.Errorf("params: optimize interval must be positive, got %v", p.OptimizeInterval)
	}
	if p.TimeoutThreshold <= 0 {
		return fmt.Errorf("params: timeout threshold must be positive, got %v", p.TimeoutThreshold)
	}
	return nil
}

// Result summarizes a finished run.
type Result struct {
	EventsProcessed    int           `json:"events_processed"`
	EndTime            time.Duration `json:"end_time"`
	PassengersArrived  int           `json:"passengers_arrived"`
	PassengersTimedOut int           `json:"passengers_timed_out"`
	PassengersOnboard  int           `json:"passengers_onboard"`
	PassengersWaiting  int           `json:"passengers_waiting"`
}

// Engine drives the simulation: it pops the lowest-keyed event, advances the
// clock, dispatches to the matching handler and loops until SIMULATION_END.
// Handlers run to completion; the engine is the only writer of simulation
// state, so a single Engine must not be shared between goroutines.
type Engine struct {
	params Params
	net    *network.Network
	reg    *Registry
	opt    optimizer.Optimizer
	queue  *EventQueue
	obs    Observer
	log    logger.Logger

	now       time.Duration
	started   bool
	processed int
}

// NewEngine wires the engine. The fleet is validated against the network:
// every home station and every bus schedule entry must name a known station.
func NewEngine(
	net *network.Network,
	fleet []*model.Vehicle,
	opt optimizer.Optimizer,
	params Params,
	log logger.Logger,
	obs Observer,
) (*Engine, error) {
	if net == nil {
		return nil, fmt.Errorf("engine: nil network")
	}
	if opt == nil {
		return nil, fmt.Errorf("engine: nil optimizer")
	}
	if log == nil {
		return nil, fmt.Errorf("engine: nil logger")
	}
	if obs == nil {
		obs = NopObserver{}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for _, v := range fleet {
		if !net.HasStation(v.CurrentStation) {
			return nil, fmt.Errorf("engine: vehicle %s starts at %w %q", v.ID, network.ErrUnknownStation, v.CurrentStation)
		}
		for _, s := range v.Schedule {
			if !net.HasStation(s.Station) {
				return nil, fmt.Errorf("engine: bus %s schedule names %w %q", v.ID, network.ErrUnknownStation, s.Station)
			}
		}
		if err := reg.AddVehicle(v); err != nil {
			return nil, err
		}
	}

	return &Engine{
		params: params,
		net:    net,
		reg:    reg,
		opt:    opt,
		queue:  NewEventQueue(),
		obs:    obs,
		log:    log,
	}, nil
}

// Registry exposes the entity registry, e.g. for post-run statistics.
func (e *Engine) Registry() *Registry { return e.reg }

// Now returns the current simulation clock.
func (e *Engine) Now() time.Duration { return e.now }

// EnqueuePassenger is the single integration point for demand sources. It
// may be called before the run or from an observer during it; the passenger
// materializes at its appear time.
func (e *Engine) EnqueuePassenger(req model.TripRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if !e.net.HasStation(req.Origin) {
		return &LookupError{Kind: "station", ID: req.Origin}
	}
	if !e.net.HasStation(req.Destination) {
		return &LookupError{Kind: "station", ID: req.Destination}
	}
	if req.AppearTime < e.now {
		return fmt.Errorf("passenger %s: appear time %v is in the past (now %v)", req.ID, req.AppearTime, e.now)
	}
	e.queue.Schedule(Event{Time: req.AppearTime, Kind: EventPassengerAppear, Request: req})
	return nil
}

// Run executes the simulation until SIMULATION_END pops. The context only
// aborts between events; within a handler all mutation is atomic.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.started {
		return Result{}, fmt.Errorf("engine: run already started")
	}
	e.started = true

	e.queue.Schedule(Event{Time: e.params.Horizon, Kind: EventSimulationEnd})
	e.queue.Schedule(Event{Time: 0, Kind: EventOptimizeCall})
	for _, v := range e.reg.Vehicles() {
		if v.Class != model.Bus {
			continue
		}
		first := v.Schedule[0]
		e.queue.Schedule(Event{Time: first.At, Kind: EventBusArrival, VehicleID: v.ID, Station: first.Station})
	}
	e.log.Infof("run started: horizon=%v optimize_interval=%v timeout=%v vehicles=%d",
		e.params.Horizon, e.params.OptimizeInterval, e.params.TimeoutThreshold, len(e.reg.Vehicles()))

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		ev, ok := e.queue.Pop()
		if !ok {
			break
		}
		if ev.Time < e.now {
			return Result{}, invariantf("event %s precedes current time %v", ev, e.now)
		}
		e.now = ev.Time
		e.processed++

		if ev.Kind == EventSimulationEnd {
			discarded := e.queue.Len()
			e.queue.Clear()
			e.observe(Observation{Time: e.now, Kind: ev.Kind.String()})
			e.log.Infof("simulation end at %v, %d queued events discarded", e.now, discarded)
			break
		}
		if err := e.dispatch(ev); err != nil {
			return Result{}, err
		}
		e.sweepTimeouts()
	}
	return e.result(), nil
}

func (e *Engine) dispatch(ev Event) error {
	switch ev.Kind {
	case EventBusArrival:
		return e.handleBusArrival(ev)
	case EventMinibusArrival:
		return e.handleMinibusArrival(ev)
	case EventPassengerAppear:
		return e.handlePassengerAppear(ev)
	case EventOptimizeCall:
		return e.handleOptimizeCall(ev)
	}
	return invariantf("unhandled event kind %s", ev.Kind)
}

// handleBusArrival serves the bus's next timetable entry: alight everyone
// destined here, then board the station's waiting list first-come
// first-served up to capacity, regardless of destination.
func (e *Engine) handleBusArrival(ev Event) error {
	v, err := e.reg.Vehicle(ev.VehicleID)
	if err != nil {
		return err
	}
	if v.Class != model.Bus {
		return invariantf("bus arrival for non-bus vehicle %s", v.ID)
	}
	stop, ok := v.NextScheduled()
	if !ok {
		return invariantf("bus %s arrival with exhausted schedule", v.ID)
	}
	if stop.Station != ev.Station {
		return invariantf("bus %s arrival at %s but schedule says %s", v.ID, ev.Station, stop.Station)
	}
	v.CurrentStation = stop.Station

	var alighted []string
	for _, pid := range append([]string(nil), v.Onboard...) {
		p, err := e.reg.Passenger(pid)
		if err != nil {
			return err
		}
		if p.Destination != stop.Station {
			continue
		}
		if err := v.RemoveOnboard(pid); err != nil {
			return invariantf("%v", err)
		}
		if err := p.Arrive(e.now); err != nil {
			return invariantf("%v", err)
		}
		alighted = append(alighted, pid)
	}

	var boarded []string
	for _, p := range append([]*model.Passenger(nil), e.reg.Waiting(stop.Station)...) {
		if v.OnboardCount() >= v.Capacity {
			break
		}
		if p.Status != model.Waiting {
			continue
		}
		if err := p.Board(v.ID, e.now); err != nil {
			return invariantf("%v", err)
		}
		if err := v.AddOnboard(p.ID); err != nil {
			return invariantf("%v", err)
		}
		e.reg.RemoveWaiting(stop.Station, p.ID)
		e.reg.RemovePending(p.ID)
		boarded = append(boarded, p.ID)
	}

	v.ScheduleIndex++
	if next, ok := v.NextScheduled(); ok {
		e.queue.Schedule(Event{Time: next.At, Kind: EventBusArrival, VehicleID: v.ID, Station: next.Station})
	}

	e.observe(Observation{
		Time: e.now, Kind: ev.Kind.String(),
		VehicleID: v.ID, StationID: stop.Station,
		Boarded: boarded, Alighted: alighted, Occupancy: v.OnboardCount(),
	})
	return nil
}

// handleMinibusArrival executes every leading route stop matching the
// arrival station, dropoffs and pickups alike, then travels on to the new
// route head or goes idle. If the optimizer replaced the plan mid-leg the
// arrival station may not match the head; the vehicle simply continues
// towards the new head without executing anything here.
func (e *Engine) handleMinibusArrival(ev Event) error {
	v, err := e.reg.Vehicle(ev.VehicleID)
	if err != nil {
		return err
	}
	if v.Class != model.Minibus {
		return invariantf("minibus arrival for non-minibus vehicle %s", v.ID)
	}
	v.CurrentStation = ev.Station

	var boarded, alighted []string
	for len(v.Route) > 0 && v.Route[0].Station == v.CurrentStation {
		stop := v.Route[0]
		v.Route = v.Route[1:]
		switch stop.Action {
		case model.Dropoff:
			for _, pid := range stop.Passengers {
				p, err := e.reg.Passenger(pid)
				if err != nil {
					return err
				}
				if !v.Carries(pid) {
					return invariantf("dropoff at %s names passenger %s not onboard %s", stop.Station, pid, v.ID)
				}
				if err := v.RemoveOnboard(pid); err != nil {
					return invariantf("%v", err)
				}
				if err := p.Arrive(e.now); err != nil {
					return invariantf("%v", err)
				}
				alighted = append(alighted, pid)
			}
		case model.Pickup:
			for _, pid := range stop.Passengers {
				p, err := e.reg.Passenger(pid)
				if err != nil {
					return err
				}
				if p.Status != model.Assigned || p.AssignedVehicle != v.ID {
					return invariantf("pickup at %s: passenger %s is %s (assigned to %q), expected assigned to %s",
						stop.Station, pid, p.Status, p.AssignedVehicle, v.ID)
				}
				if v.OnboardCount() >= v.Capacity {
					return invariantf("pickup at %s would exceed capacity %d of %s", stop.Station, v.Capacity, v.ID)
				}
				if err := p.Board(v.ID, e.now); err != nil {
					return invariantf("%v", err)
				}
				if err := v.AddOnboard(pid); err != nil {
					return invariantf("%v", err)
				}
				e.reg.RemoveWaiting(p.Origin, pid)
				boarded = append(boarded, pid)
			}
		default:
			return invariantf("stop at %s has invalid action %d", stop.Station, int(stop.Action))
		}
	}

	if len(v.Route) > 0 {
		d, err := e.net.Duration(v.CurrentStation, v.Route[0].Station)
		if err != nil {
			return err
		}
		v.Status = model.EnRoute
		e.queue.Schedule(Event{Time: e.now + d, Kind: EventMinibusArrival, VehicleID: v.ID, Station: v.Route[0].Station})
	} else {
		v.Status = model.Idle
	}

	e.observe(Observation{
		Time: e.now, Kind: ev.Kind.String(),
		VehicleID: v.ID, StationID: v.CurrentStation,
		Boarded: boarded, Alighted: alighted, Occupancy: v.OnboardCount(),
	})
	return nil
}

// handlePassengerAppear materializes a passenger at its origin station.
func (e *Engine) handlePassengerAppear(ev Event) error {
	req := ev.Request
	if !e.net.HasStation(req.Origin) {
		return &LookupError{Kind: "station", ID: req.Origin}
	}
	if !e.net.HasStation(req.Destination) {
		return &LookupError{Kind: "station", ID: req.Destination}
	}
	p, err := model.NewPassenger(req)
	if err != nil {
		return err
	}
	if err := e.reg.AddPassenger(p); err != nil {
		return err
	}
	e.reg.AddWaiting(req.Origin, p)
	e.reg.AddPending(p)

	e.observe(Observation{
		Time: e.now, Kind: ev.Kind.String(),
		StationID: req.Origin, PassengerID: p.ID,
	})
	return nil
}

// handleOptimizeCall snapshots pending requests and minibus states, invokes
// the pluggable optimizer and installs the returned plans. An optimizer
// error only discards this cycle; a lookup error inside it is a data
// inconsistency and stays fatal.
func (e *Engine) handleOptimizeCall(ev Event) error {
	if next := e.now + e.params.OptimizeInterval; next < e.params.Horizon {
		e.queue.Schedule(Event{Time: next, Kind: EventOptimizeCall})
	}

	snap := e.snapshot()
	plans, err := e.opt.Optimize(e.net, snap)
	if err != nil {
		if errors.Is(err, network.ErrUnknownStation) || errors.Is(err, network.ErrUnknownPair) {
			return err
		}
		e.log.Warnf("optimizer cycle at %v failed, keeping previous plans: %v", e.now, err)
		e.observe(Observation{Time: e.now, Kind: ev.Kind.String()})
		return nil
	}

	for _, mb := range e.reg.Minibuses() {
		newRoute, ok := plans[mb.ID]
		if !ok || model.RoutesEqual(newRoute, mb.Route) {
			continue
		}
		if err := e.installRoute(mb, newRoute); err != nil {
			return err
		}
	}

	e.observe(Observation{Time: e.now, Kind: ev.Kind.String()})
	return nil
}

// installRoute replaces a minibus's plan wholesale, marks newly inserted
// passengers as assigned and wakes the vehicle if it was idle.
func (e *Engine) installRoute(mb *model.Vehicle, newRoute []model.Stop) error {
	for _, stop := range newRoute {
		if !e.net.HasStation(stop.Station) {
			return &LookupError{Kind: "station", ID: stop.Station}
		}
		if stop.Action != model.Pickup {
			continue
		}
		for _, pid := range stop.Passengers {
			p, err := e.reg.Passenger(pid)
			if err != nil {
				return err
			}
			switch {
			case p.Status == model.Waiting:
				if err := p.Assign(mb.ID, e.now); err != nil {
					return invariantf("%v", err)
				}
				e.reg.RemovePending(pid)
				e.log.Debugf("passenger %s assigned to %s", pid, mb.ID)
			case p.Status == model.Assigned && p.AssignedVehicle == mb.ID:
				// Still planned from an earlier cycle.
			default:
				return invariantf("plan for %s picks up passenger %s in status %s", mb.ID, pid, p.Status)
			}
		}
	}

	mb.Route = model.CloneRoute(newRoute)
	e.log.Infof("minibus %s: installed route with %d stops", mb.ID, len(mb.Route))

	if mb.Status == model.Idle && len(mb.Route) > 0 {
		d, err := e.net.Duration(mb.CurrentStation, mb.Route[0].Station)
		if err != nil {
			return err
		}
		mb.Status = model.EnRoute
		e.queue.Schedule(Event{Time: e.now + d, Kind: EventMinibusArrival, VehicleID: mb.ID, Station: mb.Route[0].Station})
	}
	return nil
}

// snapshot builds the optimizer input: pending requests ordered by appear
// time then id, minibus states ordered by vehicle id, routes deep-copied so
// the optimizer can never mutate live state.
func (e *Engine) snapshot() optimizer.Snapshot {
	pending := e.reg.Pending()
	reqs := make([]optimizer.Request, 0, len(pending))
	for _, p := range pending {
		reqs = append(reqs, optimizer.Request{
			PassengerID: p.ID,
			Origin:      p.Origin,
			Destination: p.Destination,
			AppearTime:  p.AppearTime,
		})
	}
	minibuses := e.reg.Minibuses()
	states := make([]optimizer.MinibusState, 0, len(minibuses))
	for _, mb := range minibuses {
		states = append(states, optimizer.MinibusState{
			ID:             mb.ID,
			Capacity:       mb.Capacity,
			CurrentStation: mb.CurrentStation,
			OnboardCount:   mb.OnboardCount(),
			Route:          model.CloneRoute(mb.Route),
		})
	}
	return optimizer.Snapshot{Now: e.now, Requests: reqs, Minibuses: states}
}

// sweepTimeouts runs after every event: any passenger still WAITING past
// the threshold gives up. Timeout is a normal terminal transition, never an
// error.
func (e *Engine) sweepTimeouts() {
	for _, station := range e.reg.WaitingStations() {
		for _, p := range append([]*model.Passenger(nil), e.reg.Waiting(station)...) {
			if p.Status != model.Waiting || e.now-p.AppearTime < e.params.TimeoutThreshold {
				continue
			}
			if err := p.TimeOut(e.now); err != nil {
				continue
			}
			e.reg.RemoveWaiting(station, p.ID)
			e.reg.RemovePending(p.ID)
			e.log.Infof("passenger %s timed out at %v after waiting %v", p.ID, e.now, e.now-p.AppearTime)
		}
	}
}

func (e *Engine) observe(o Observation) {
	e.obs.Observe(o)
}

func (e *Engine) result() Result {
	res := Result{EventsProcessed: e.processed, EndTime: e.now}
	for _, p := range e.reg.Passengers() {
		switch p.Status {
		case model.Arrived:
			res.PassengersArrived++
		case model.TimedOut:
			res.PassengersTimedOut++
		case model.Onboard:
			res.PassengersOnboard++
		default:
			res.PassengersWaiting++
		}
	}
	return res
}
