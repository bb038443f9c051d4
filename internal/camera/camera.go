// Package camera implements the orbit camera as an explicit state value.
//
// Input is fed through Handle, which returns the next state and never mutates
// its argument. View turns a state and a focus position into the eye, target
// and up vectors a renderer needs, in AU.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/orrery/internal/physics"
)

type Mode int

const (
	Idle Mode = iota
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Limits are the fixed tuning values of a camera. Zoom values are in AU.
type Limits struct {
	MinZoom     float64
	MaxZoom     float64
	ZoomStep    float64
	Sensitivity float64 // radians per pointer unit
}

func DefaultLimits() Limits {
	return Limits{
		MinZoom:     1e-5,
		MaxZoom:     100,
		ZoomStep:    1e-3,
		Sensitivity: 0.005,
	}
}

// State is the orbit camera. Theta is the azimuth and Phi the elevation,
// both in radians.
type State struct {
	Theta float64
	Phi   float64
	Zoom  float64
	Mode  Mode

	// Pointer anchor, only meaningful while Dragging.
	LastX, LastY float64

	Limits Limits
}

// New returns an idle camera at the given zoom, clamped to lim.
func New(zoom float64, lim Limits) State {
	return State{Zoom: clamp(zoom, lim.MinZoom, lim.MaxZoom), Limits: lim}
}

// Event is an input consumed by Handle.
type Event interface {
	isEvent()
}

type (
	DragStart   struct{ X, Y float64 }
	DragEnd     struct{}
	PointerMove struct{ X, Y float64 }
	// ZoomIn and ZoomOut are level signals: a renderer sends one per poll
	// for as long as the key is held.
	ZoomIn  struct{}
	ZoomOut struct{}
	// SelectFocus asks for body N to become the focus. It does not touch
	// the camera and is validated by Session.
	SelectFocus struct{ N int }
)

func (DragStart) isEvent()   {}
func (DragEnd) isEvent()     {}
func (PointerMove) isEvent() {}
func (ZoomIn) isEvent()      {}
func (ZoomOut) isEvent()     {}
func (SelectFocus) isEvent() {}

// Handle returns the state that results from applying ev to s.
func Handle(s State, ev Event) State {
	switch e := ev.(type) {
	case DragStart:
		s.Mode = Dragging
		s.LastX, s.LastY = e.X, e.Y

	case DragEnd:
		s.Mode = Idle

	case PointerMove:
		if s.Mode != Dragging {
			return s
		}
		dx := e.X - s.LastX
		dy := e.Y - s.LastY
		s.Theta += dx * s.Limits.Sensitivity
		s.Phi -= dy * s.Limits.Sensitivity
		s.Phi = clamp(s.Phi, -math.Pi/2, math.Pi/2)
		s.LastX, s.LastY = e.X, e.Y

	case ZoomIn:
		s.Zoom = max(s.Zoom-s.Limits.ZoomStep, s.Limits.MinZoom)

	case ZoomOut:
		s.Zoom = min(s.Zoom+s.Limits.ZoomStep, s.Limits.MaxZoom)
	}
	return s
}

// Transform is a look-at view in AU.
type Transform struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
}

// View places the eye on the sphere of radius Zoom around focus, which is
// given in meters.
func (s State) View(focus physics.Vec3) Transform {
	target := physics.ToDisplay(focus)
	sinT, cosT := math.Sincos(s.Theta)
	sinP, cosP := math.Sincos(s.Phi)
	offset := mgl64.Vec3{cosP * sinT, sinP, cosP * cosT}.Mul(s.Zoom)
	return Transform{
		Eye:    target.Add(offset),
		Target: target,
		Up:     mgl64.Vec3{0, 1, 0},
	}
}

// Matrix returns the view matrix for t.
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.LookAtV(t.Eye, t.Target, t.Up)
}

// Distance is the eye to target distance, equal to the zoom that produced t.
func (t Transform) Distance() float64 {
	return t.Eye.Sub(t.Target).Len()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
