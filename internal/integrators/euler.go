package integrators

import (
	"math"

	"github.com/san-kum/orrery/internal/physics"
)

// SymplecticEuler is the semi-implicit Euler method: velocity is updated first
// and the new velocity moves the position.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (SymplecticEuler) Name() string { return "symplectic" }

func (SymplecticEuler) Step(b *physics.Body, dt float64) {
	a := b.Acceleration()
	b.Velocity = b.Velocity.Add(a.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	finish(b, dt)
}

// Euler is the explicit method, moving the position with the velocity from
// the start of the step. It drifts in energy on orbits and exists for
// comparison runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Name() string { return "euler" }

func (Euler) Step(b *physics.Body, dt float64) {
	a := b.Acceleration()
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Velocity = b.Velocity.Add(a.Mul(dt))
	finish(b, dt)
}

// finish runs the post-kinematics part shared by every method: clear the
// force accumulator, spin the body and record its trajectory sample.
func finish(b *physics.Body, dt float64) {
	b.Force = physics.Vec3{}
	b.RotationAngle = WrapAngle(b.RotationAngle + b.SpinRate*dt)
	b.Record()
}

// WrapAngle brings a into [0, 2π). Angles that moved by less than one turn
// take a single subtraction or addition; anything further falls back to a
// modulo.
func WrapAngle(a float64) float64 {
	switch {
	case a >= physics.TwoPi:
		a -= physics.TwoPi
	case a < 0:
		a += physics.TwoPi
	}
	if a < 0 || a >= physics.TwoPi {
		a = math.Mod(a, physics.TwoPi)
		if a < 0 {
			a += physics.TwoPi
		}
		if a >= physics.TwoPi {
			a = 0
		}
	}
	return a
}
