package sim

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/physics"
)

// Simulator owns the body list and advances it one tick at a time. It is not
// safe for concurrent use; renderers read Snapshots between ticks.
type Simulator struct {
	bodies     []*physics.Body
	integrator integrators.Integrator
	dt         float64
	time       float64
	ticks      int
	workers    int
	metrics    []Metric
	observers  []Observer
}

func New(bodies []*physics.Body, integrator integrators.Integrator, dt float64) (*Simulator, error) {
	if len(bodies) == 0 {
		return nil, ErrNoBodies
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w, got %g", ErrInvalidDt, dt)
	}
	if integrator == nil {
		integrator = integrators.NewSymplecticEuler()
	}
	return &Simulator{
		bodies:     bodies,
		integrator: integrator,
		dt:         dt,
		workers:    runtime.NumCPU(),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}, nil
}

// SetWorkers bounds the goroutines used by the force pass of large systems.
// One or fewer keeps it serial.
func (s *Simulator) SetWorkers(n int) { s.workers = n }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Dt() float64                        { return s.dt }
func (s *Simulator) Time() float64                      { return s.time }
func (s *Simulator) Ticks() int                         { return s.ticks }
func (s *Simulator) Len() int                           { return len(s.bodies) }
func (s *Simulator) Integrator() integrators.Integrator { return s.integrator }

// Bodies exposes the live body list. Callers outside the tick loop must not
// modify it.
func (s *Simulator) Bodies() []*physics.Body { return s.bodies }

// Tick advances the system by dt: the full force pass over every pair
// completes before any body is integrated. A zero dt leaves the system
// untouched.
func (s *Simulator) Tick() error {
	if s.dt == 0 {
		return nil
	}

	forces := physics.ComputeForcesParallel(s.bodies, s.workers)
	physics.ApplyForces(s.bodies, forces)

	for _, b := range s.bodies {
		s.integrator.Step(b, s.dt)
	}

	s.time += s.dt
	s.ticks++

	for _, b := range s.bodies {
		if !b.IsFinite() {
			return &StepError{Step: s.ticks, Time: s.time, Body: b.Name, Wrapped: ErrInvalidState}
		}
	}

	for _, m := range s.metrics {
		m.Observe(s.bodies, s.time)
	}
	for _, o := range s.observers {
		o.OnTick(s.ticks, s.time, s.bodies)
	}
	return nil
}

// Run performs steps ticks, stopping early if ctx is canceled or the state
// becomes invalid. The partial result is returned alongside any error.
func (s *Simulator) Run(ctx context.Context, steps int) (*Result, error) {
	if steps < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got %d", steps)
	}

	for _, m := range s.metrics {
		m.Reset()
		if b, ok := m.(Baseliner); ok {
			b.Baseline(s.bodies, s.time)
		}
	}

	result := &Result{
		InitialEnergy: physics.TotalEnergy(s.bodies),
		Metrics:       make(map[string]float64),
	}

	var runErr error
	start := s.ticks
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
			runErr = s.Tick()
		}
		if runErr != nil {
			break
		}
	}

	result.Ticks = s.ticks - start
	result.Time = s.time
	result.FinalEnergy = physics.TotalEnergy(s.bodies)
	if result.InitialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.FinalEnergy-result.InitialEnergy) / math.Abs(result.InitialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}

// Snapshot copies the current state, trajectories included.
func (s *Simulator) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   s.ticks,
		Time:   s.time,
		Bodies: make([]BodyState, len(s.bodies)),
	}
	for i, b := range s.bodies {
		st := BodyState{
			Index:         b.Index,
			Name:          b.Name,
			Position:      b.Position,
			Velocity:      b.Velocity,
			Mass:          b.Mass,
			Radius:        b.Radius,
			RotationAngle: b.RotationAngle,
			Color:         b.Color,
			Trajectory:    b.Trajectory.Slice(),
		}
		if b.Rings != nil {
			r := *b.Rings
			st.Rings = &r
		}
		snap.Bodies[i] = st
	}
	return snap
}
