package sim

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/san-kum/orrery/internal/physics"
)

var (
	// ErrNoBodies indicates a simulator constructed with an empty body list.
	ErrNoBodies = errors.New("sim: no bodies")

	// ErrInvalidDt indicates a negative or non-finite timestep.
	ErrInvalidDt = errors.New("sim: dt must be finite and non-negative")

	// ErrInvalidState indicates a body whose position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the tick it occurred on.
type StepError struct {
	Step    int
	Time    float64
	Body    string
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("tick %d (t=%.1f days, body %s): %v", e.Step, e.Time/physics.Day, e.Body, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(bodies []*physics.Body, t float64)
	Value() float64
	Reset()
}

// Baseliner is implemented by metrics that measure against the state before
// the first tick. Run calls Baseline after Reset.
type Baseliner interface {
	Baseline(bodies []*physics.Body, t float64)
}

// Observer is notified after every completed tick. The bodies must be treated
// as read-only.
type Observer interface {
	OnTick(tick int, t float64, bodies []*physics.Body)
}

type Result struct {
	Ticks         int
	Time          float64
	InitialEnergy float64
	FinalEnergy   float64
	EnergyDrift   float64
	Metrics       map[string]float64
}

// BodyState is a detached copy of one body, safe to hand to a renderer.
type BodyState struct {
	Index         int              `json:"index"`
	Name          string           `json:"name"`
	Position      physics.Vec3     `json:"position"`
	Velocity      physics.Vec3     `json:"velocity"`
	Mass          float64          `json:"mass"`
	Radius        float64          `json:"radius"`
	RotationAngle float64          `json:"rotation_angle"`
	Color         color.RGBA       `json:"color"`
	Rings         *physics.Rings   `json:"rings,omitempty"`
	Trajectory    []physics.Point2 `json:"trajectory,omitempty"`
}

// DisplayPosition returns the position in AU.
func (b BodyState) DisplayPosition() physics.Vec3 {
	return physics.ToDisplay(b.Position)
}

type Snapshot struct {
	Tick   int         `json:"tick"`
	Time   float64     `json:"time"`
	Bodies []BodyState `json:"bodies"`
}

// Days returns the elapsed simulated time in days.
func (s Snapshot) Days() float64 {
	return s.Time / physics.Day
}
