package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/orrery/internal/camera"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt                 = physics.Day
	DefaultSteps              = 365
	DefaultTrajectoryCapacity = 1000
	DefaultIntegrator         = "symplectic"

	DefaultZoom        = 1e-4
	DefaultZoomMin     = 1e-5
	DefaultZoomMax     = 100.0
	DefaultZoomStep    = 1e-3
	DefaultSensitivity = 0.005
)

var (
	ErrUnknownParent = errors.New("config: unknown parent body")
	ErrUnknownPreset = errors.New("config: unknown preset")
	ErrInvalid       = errors.New("config: invalid configuration")
)

type Config struct {
	Name               string       `yaml:"name"`
	Dt                 float64      `yaml:"dt"`
	Steps              int          `yaml:"steps"`
	TrajectoryCapacity int          `yaml:"trajectory_capacity"`
	Integrator         string       `yaml:"integrator"`
	Bodies             []BodyConfig `yaml:"bodies"`
	Camera             CameraConfig `yaml:"camera"`
}

// BodyConfig describes one body. A body with Orbits set is placed Distance
// meters along +x from its parent, moving at circular speed along +y relative
// to it; Position and Velocity are then ignored.
type BodyConfig struct {
	Name     string       `yaml:"name"`
	Position [3]float64   `yaml:"position,flow,omitempty"`
	Velocity [3]float64   `yaml:"velocity,flow,omitempty"`
	Mass     float64      `yaml:"mass"`
	Radius   float64      `yaml:"radius"`
	SpinRate float64      `yaml:"spin_rate,omitempty"`
	Color    string       `yaml:"color,omitempty"`
	Rings    *RingsConfig `yaml:"rings,omitempty"`
	Orbits   string       `yaml:"orbits,omitempty"`
	Distance float64      `yaml:"distance,omitempty"`
}

type RingsConfig struct {
	Inner float64 `yaml:"inner"`
	Outer float64 `yaml:"outer"`
}

type CameraConfig struct {
	Zoom        float64 `yaml:"zoom"`
	ZoomMin     float64 `yaml:"zoom_min"`
	ZoomMax     float64 `yaml:"zoom_max"`
	ZoomStep    float64 `yaml:"zoom_step"`
	Sensitivity float64 `yaml:"sensitivity"`
	Focus       int     `yaml:"focus"`
}

func DefaultCamera() CameraConfig {
	return CameraConfig{
		Zoom:        DefaultZoom,
		ZoomMin:     DefaultZoomMin,
		ZoomMax:     DefaultZoomMax,
		ZoomStep:    DefaultZoomStep,
		Sensitivity: DefaultSensitivity,
		Focus:       3,
	}
}

// DefaultConfig returns the full solar system.
func DefaultConfig() *Config {
	cfg, _ := GetPreset("solar")
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that can be checked without building bodies.
func (c *Config) Validate() error {
	if c.Dt < 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be finite and non-negative, got %g", ErrInvalid, c.Dt)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must be non-negative, got %d", ErrInvalid, c.Steps)
	}
	if len(c.Bodies) == 0 {
		return fmt.Errorf("%w: no bodies", ErrInvalid)
	}
	if _, err := integrators.New(c.integratorName()); err != nil {
		return err
	}

	cam := c.Camera
	if !(cam.ZoomMin > 0) || cam.ZoomMin > cam.ZoomMax {
		return fmt.Errorf("%w: zoom range [%g, %g]", ErrInvalid, cam.ZoomMin, cam.ZoomMax)
	}
	if cam.ZoomStep < 0 || cam.Sensitivity < 0 {
		return fmt.Errorf("%w: zoom step and sensitivity must be non-negative", ErrInvalid)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if !(b.Mass > 0) {
			return fmt.Errorf("body %d (%s): %w, got %g", i, b.Name, physics.ErrNonPositiveMass, b.Mass)
		}
		if b.Radius < 0 {
			return fmt.Errorf("body %d (%s): %w, got %g", i, b.Name, physics.ErrNegativeRadius, b.Radius)
		}
		if b.Orbits != "" {
			if !seen[b.Orbits] {
				return fmt.Errorf("body %d (%s): %w %q", i, b.Name, ErrUnknownParent, b.Orbits)
			}
			if !(b.Distance > 0) {
				return fmt.Errorf("%w: body %d (%s) orbits %s at distance %g", ErrInvalid, i, b.Name, b.Orbits, b.Distance)
			}
		}
		if b.Color != "" {
			if _, err := colorful.Hex(b.Color); err != nil {
				return fmt.Errorf("%w: body %d (%s) color %q", ErrInvalid, i, b.Name, b.Color)
			}
		}
		if b.Rings != nil && (b.Rings.Inner < 0 || b.Rings.Outer < b.Rings.Inner) {
			return fmt.Errorf("%w: body %d (%s) rings [%g, %g]", ErrInvalid, i, b.Name, b.Rings.Inner, b.Rings.Outer)
		}
		if b.Name != "" {
			seen[b.Name] = true
		}
	}
	return nil
}

// Build validates the configuration and creates its bodies in declaration
// order. Parents must be declared before the bodies orbiting them.
func (c *Config) Build() ([]*physics.Body, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	byName := make(map[string]*physics.Body, len(c.Bodies))
	bodies := make([]*physics.Body, 0, len(c.Bodies))

	for i, bc := range c.Bodies {
		pos := physics.Vec3(bc.Position)
		vel := physics.Vec3(bc.Velocity)
		if bc.Orbits != "" {
			parent := byName[bc.Orbits]
			pos = parent.Position.Add(physics.Vec3{bc.Distance, 0, 0})
			vel = parent.Velocity.Add(physics.Vec3{0, physics.CircularSpeed(parent.Mass, bc.Distance), 0})
		}

		p := physics.Params{
			Name:               bc.Name,
			Position:           pos,
			Velocity:           vel,
			Mass:               bc.Mass,
			Radius:             bc.Radius,
			SpinRate:           bc.SpinRate,
			Color:              bodyColor(i, bc.Color),
			TrajectoryCapacity: c.TrajectoryCapacity,
		}
		if bc.Rings != nil {
			p.Rings = &physics.Rings{Inner: bc.Rings.Inner, Outer: bc.Rings.Outer}
		}

		b, err := physics.NewBody(i, p)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
		if bc.Name != "" {
			byName[bc.Name] = b
		}
	}
	return bodies, nil
}

// NewIntegrator returns the configured integrator.
func (c *Config) NewIntegrator() (integrators.Integrator, error) {
	return integrators.New(c.integratorName())
}

func (c *Config) integratorName() string {
	if c.Integrator == "" {
		return DefaultIntegrator
	}
	return c.Integrator
}

// CameraLimits returns the camera tuning values.
func (c *Config) CameraLimits() camera.Limits {
	return camera.Limits{
		MinZoom:     c.Camera.ZoomMin,
		MaxZoom:     c.Camera.ZoomMax,
		ZoomStep:    c.Camera.ZoomStep,
		Sensitivity: c.Camera.Sensitivity,
	}
}

// Session returns the initial interactive view for a system of bodyCount
// bodies.
func (c *Config) Session(bodyCount int) camera.Session {
	cam := camera.New(c.Camera.Zoom, c.CameraLimits())
	return camera.NewSession(cam, c.Camera.Focus, bodyCount)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodyConfig, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Rings != nil {
			r := *b.Rings
			b.Rings = &r
		}
		out.Bodies[i] = b
	}
	return &out
}

// bodyColor parses hex, or picks a hue from the body index when hex is empty.
func bodyColor(index int, hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if hex == "" || err != nil {
		c = colorful.Hcl(math.Mod(float64(index)*137.5, 360), 0.6, 0.75).Clamped()
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
