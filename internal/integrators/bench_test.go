package integrators

import (
	"testing"

	"github.com/san-kum/orrery/internal/physics"
)

func benchStep(b *testing.B, integ Integrator) {
	body, err := physics.NewBody(0, physics.Params{
		Position: physics.Vec3{physics.AU, 0, 0},
		Velocity: physics.Vec3{0, physics.CircularSpeed(physics.SunMass, physics.AU), 0},
		Mass:     5.972e24,
		SpinRate: 7.29e-5,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body.ApplyForce(physics.Vec3{-3.5e22, 0, 0})
		integ.Step(body, physics.Day)
	}
}

func BenchmarkSymplecticEuler(b *testing.B) { benchStep(b, NewSymplecticEuler()) }
func BenchmarkEuler(b *testing.B)           { benchStep(b, NewEuler()) }
