package physics

import "math"

const (
	G           = 6.67430e-11 // m^3 kg^-1 s^-2
	AU          = 1.496e11    // m
	Day         = 86400.0     // s
	MinDistance = 1e3         // m, floor applied to pair separation

	SunMass = 1.989e30 // kg

	TwoPi = 2 * math.Pi
)

// CircularSpeed returns the speed of a circular orbit of radius d around a
// central mass m.
func CircularSpeed(m, d float64) float64 {
	return math.Sqrt(G * m / d)
}
