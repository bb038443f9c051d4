package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/orrery/internal/physics"
)

const (
	earthMass  = 5.972e24
	moonOrbit  = 384400e3
	solarSteps = 3650
)

var sun = BodyConfig{Name: "sun", Mass: physics.SunMass, Radius: 696340e3, SpinRate: 2.865e-6, Color: "#ffff00"}

var earth = BodyConfig{Name: "earth", Orbits: "sun", Distance: physics.AU, Mass: earthMass, Radius: 6371e3, SpinRate: 7.292e-5, Color: "#0000ff"}

var moon = BodyConfig{Name: "moon", Orbits: "earth", Distance: moonOrbit, Mass: 7.347e22, Radius: 1737.1e3, SpinRate: 2.662e-6, Color: "#ffffff"}

var Presets = map[string]*Config{
	"solar": {
		Name: "solar", Integrator: "symplectic", Dt: DefaultDt, Steps: solarSteps,
		TrajectoryCapacity: DefaultTrajectoryCapacity,
		Bodies: []BodyConfig{
			sun,
			{Name: "mercury", Orbits: "sun", Distance: 0.39 * physics.AU, Mass: 3.3011e23, Radius: 2439.7e3, SpinRate: 1.240e-6, Color: "#808080"},
			{Name: "venus", Orbits: "sun", Distance: 0.72 * physics.AU, Mass: 4.8675e24, Radius: 6051.8e3, SpinRate: -2.99e-7, Color: "#ff8000"},
			earth,
			moon,
			{Name: "mars", Orbits: "sun", Distance: 1.524 * physics.AU, Mass: 6.39e23, Radius: 3389.5e3, SpinRate: 7.088e-5, Color: "#ff0000"},
			{Name: "jupiter", Orbits: "sun", Distance: 5.2 * physics.AU, Mass: 1.8982e27, Radius: 69911e3, SpinRate: 1.758e-4, Color: "#ff8000"},
			{
				Name: "saturn", Orbits: "sun", Distance: 9.58 * physics.AU, Mass: 5.6834e26, Radius: 58232e3, SpinRate: 1.638e-4, Color: "#ffff80",
				Rings: &RingsConfig{Inner: 74.5e6, Outer: 140.22e6},
			},
			{Name: "uranus", Orbits: "sun", Distance: 19.2 * physics.AU, Mass: 8.6810e25, Radius: 25362e3, SpinRate: -1.012e-4, Color: "#80ffff"},
			{Name: "neptune", Orbits: "sun", Distance: 30.05 * physics.AU, Mass: 1.02413e26, Radius: 24622e3, SpinRate: 1.083e-4, Color: "#8000ff"},
		},
		Camera: DefaultCamera(),
	},
	"earth_sun": {
		Name: "earth_sun", Integrator: "symplectic", Dt: DefaultDt, Steps: DefaultSteps,
		TrajectoryCapacity: DefaultTrajectoryCapacity,
		Bodies:             []BodyConfig{sun, earth},
		Camera:             withFocus(DefaultCamera(), 1, 2.5),
	},
	"earth_moon": {
		Name: "earth_moon", Integrator: "symplectic", Dt: 3600, Steps: 24 * 28,
		TrajectoryCapacity: DefaultTrajectoryCapacity,
		Bodies: []BodyConfig{
			{Name: "earth", Mass: earthMass, Radius: 6371e3, SpinRate: 7.292e-5, Color: "#0000ff"},
			moon,
		},
		Camera: withFocus(DefaultCamera(), 0, 0.01),
	},
}

func withFocus(c CameraConfig, focus int, zoom float64) CameraConfig {
	c.Focus = focus
	c.Zoom = zoom
	return c
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg.Clone(), nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
