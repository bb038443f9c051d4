package physics

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/trajectory"
)

type Vec3 = mgl64.Vec3

var (
	ErrNonPositiveMass = errors.New("physics: mass must be positive")
	ErrNegativeRadius  = errors.New("physics: radius must not be negative")
)

// Point2 is a trajectory sample in display units (AU).
type Point2 struct {
	X, Y float64
}

// Rings describes a planetary ring in meters from the body center.
type Rings struct {
	Inner, Outer float64
}

// Params holds the construction-time description of a body.
type Params struct {
	Name     string
	Position Vec3
	Velocity Vec3
	Mass     float64
	Radius   float64
	SpinRate float64 // rad/s
	Color    color.RGBA
	Rings    *Rings

	TrajectoryCapacity int
}

type Body struct {
	Index    int
	Name     string
	Position Vec3
	Velocity Vec3
	// Force is the net force accumulated during the current tick. It is
	// cleared by the integrator once consumed.
	Force Vec3

	Mass          float64
	Radius        float64
	SpinRate      float64
	RotationAngle float64
	Color         color.RGBA
	Rings         *Rings

	Trajectory *trajectory.Ring[Point2]
}

// NewBody validates p and returns the body at position index in the system.
func NewBody(index int, p Params) (*Body, error) {
	if !(p.Mass > 0) || math.IsInf(p.Mass, 0) {
		return nil, fmt.Errorf("body %d (%s): %w, got %g", index, p.Name, ErrNonPositiveMass, p.Mass)
	}
	if p.Radius < 0 {
		return nil, fmt.Errorf("body %d (%s): %w, got %g", index, p.Name, ErrNegativeRadius, p.Radius)
	}
	return &Body{
		Index:      index,
		Name:       p.Name,
		Position:   p.Position,
		Velocity:   p.Velocity,
		Mass:       p.Mass,
		Radius:     p.Radius,
		SpinRate:   p.SpinRate,
		Color:      p.Color,
		Rings:      p.Rings,
		Trajectory: trajectory.New[Point2](p.TrajectoryCapacity),
	}, nil
}

// ApplyForce adds f to the tick's force accumulator.
func (b *Body) ApplyForce(f Vec3) {
	b.Force = b.Force.Add(f)
}

// Acceleration is the accumulated force divided by mass.
func (b *Body) Acceleration() Vec3 {
	return b.Force.Mul(1 / b.Mass)
}

// ToDisplay converts a position in meters to display units (AU). Every
// renderer, the camera and the trajectory go through it so that their values
// agree bit for bit.
func ToDisplay(v Vec3) Vec3 {
	return v.Mul(1 / AU)
}

// DisplayPosition returns the position in AU.
func (b *Body) DisplayPosition() Vec3 {
	return ToDisplay(b.Position)
}

// PlanePosition is the display position projected on the orbital plane.
func (b *Body) PlanePosition() Point2 {
	p := b.DisplayPosition()
	return Point2{X: p.X(), Y: p.Y()}
}

// Record appends the plane position to the trajectory.
func (b *Body) Record() {
	b.Trajectory.Push(b.PlanePosition())
}

// Speed returns the magnitude of the velocity in m/s.
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// IsFinite reports whether the kinematic state contains no NaN or Inf.
func (b *Body) IsFinite() bool {
	for _, v := range [...]Vec3{b.Position, b.Velocity} {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}
