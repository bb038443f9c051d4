package metrics

import (
	"math"

	"github.com/san-kum/orrery/internal/physics"
)

// EnergyDrift tracks the largest relative deviation of total energy from the
// baseline: the state before the run's first tick when driven by a simulator,
// otherwise the first observed value.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	baselined     bool
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

// Baseline fixes the reference energy without counting as a sample.
func (e *EnergyDrift) Baseline(bodies []*physics.Body, t float64) {
	e.initialEnergy = physics.TotalEnergy(bodies)
	e.currentEnergy = e.initialEnergy
	e.baselined = true
}

func (e *EnergyDrift) Observe(bodies []*physics.Body, t float64) {
	energy := physics.TotalEnergy(bodies)

	if e.samples == 0 && !e.baselined {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current returns the most recently observed total energy in joules.
func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.baselined = false
}

// MomentumDrift tracks the largest change in total linear momentum, relative
// to the sum of the bodies' momentum magnitudes at the baseline.
// The total is usually near zero, so it cannot be the scale.
type MomentumDrift struct {
	name      string
	initial   physics.Vec3
	scale     float64
	maxDrift  float64
	samples   int
	baselined bool
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

// Baseline fixes the reference momentum without counting as a sample.
func (m *MomentumDrift) Baseline(bodies []*physics.Body, t float64) {
	m.initial = physics.Momentum(bodies)
	m.scale = 0
	for _, b := range bodies {
		m.scale += b.Mass * b.Speed()
	}
	m.baselined = true
}

func (m *MomentumDrift) Observe(bodies []*physics.Body, t float64) {
	if m.samples == 0 && !m.baselined {
		m.Baseline(bodies, t)
	}
	p := physics.Momentum(bodies)
	m.samples++

	if m.scale > 0 {
		m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len()/m.scale)
	}
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = physics.Vec3{}
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
	m.baselined = false
}
