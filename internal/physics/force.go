package physics

// PairForce returns the gravitational force exerted on a by b.
//
// The separation is floored at MinDistance, so bodies closer than the floor
// feel the force they would at exactly MinDistance. Coincident bodies have no
// defined direction and exert no force on each other.
func PairForce(a, b *Body) Vec3 {
	d := b.Position.Sub(a.Position)
	r := d.Len()
	if r == 0 {
		return Vec3{}
	}
	dist := max(r, MinDistance)
	mag := G * a.Mass * b.Mass / (dist * dist)
	return d.Mul(mag / r)
}

// ComputeForces returns the net gravitational force on every body, indexed
// like bodies. Each unordered pair is evaluated once and applied with opposite
// signs to both members. The bodies are not modified.
func ComputeForces(bodies []*Body) []Vec3 {
	forces := make([]Vec3, len(bodies))
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			f := PairForce(bodies[i], bodies[j])
			forces[i] = forces[i].Add(f)
			forces[j] = forces[j].Sub(f)
		}
	}
	return forces
}

// ApplyForces adds forces[i] to the accumulator of bodies[i].
func ApplyForces(bodies []*Body, forces []Vec3) {
	for i, b := range bodies {
		b.ApplyForce(forces[i])
	}
}
