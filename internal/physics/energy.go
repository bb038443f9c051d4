package physics

import "math"

// TotalEnergy returns kinetic plus gravitational potential energy in joules.
// The potential uses the same distance floor as the force law.
func TotalEnergy(bodies []*Body) float64 {
	ke, pe := 0.0, 0.0
	for i, a := range bodies {
		ke += 0.5 * a.Mass * a.Velocity.Dot(a.Velocity)
		for _, b := range bodies[i+1:] {
			r := math.Max(b.Position.Sub(a.Position).Len(), MinDistance)
			pe -= G * a.Mass * b.Mass / r
		}
	}
	return ke + pe
}

func Momentum(bodies []*Body) Vec3 {
	var p Vec3
	for _, b := range bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

func AngularMomentum(bodies []*Body) Vec3 {
	var l Vec3
	for _, b := range bodies {
		l = l.Add(b.Position.Cross(b.Velocity.Mul(b.Mass)))
	}
	return l
}

// CenterOfMass returns the mass-weighted mean position.
func CenterOfMass(bodies []*Body) Vec3 {
	var c Vec3
	total := 0.0
	for _, b := range bodies {
		c = c.Add(b.Position.Mul(b.Mass))
		total += b.Mass
	}
	if total == 0 {
		return Vec3{}
	}
	return c.Mul(1 / total)
}
