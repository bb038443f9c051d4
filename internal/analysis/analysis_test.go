package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
)

func TestOrbitalPeriodSinusoid(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		period float64
	}{
		{"whole bins", 1024, 128},
		{"between bins", 1000, 91},
		{"ten years daily", 3650, 365.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrbitalPeriod(Sinusoid(tt.n, 1, tt.period, 3), 1)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.period)/tt.period > 0.01 {
				t.Errorf("period = %.3f, want %.3f", got, tt.period)
			}
		})
	}
}

func TestOrbitalPeriodIgnoresOffset(t *testing.T) {
	data := Sinusoid(512, 1, 64, 1)
	for i := range data {
		data[i] += 100
	}
	got, err := OrbitalPeriod(data, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-64) > 1 {
		t.Errorf("period = %g, want 64", got)
	}
}

func TestOrbitalPeriodErrors(t *testing.T) {
	if _, err := OrbitalPeriod([]float64{1, 2}, 1); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
	if _, err := OrbitalPeriod(make([]float64, 64), 1); err == nil {
		t.Error("expected error for a constant series")
	}
}

func TestEarthYear(t *testing.T) {
	sun, _ := physics.NewBody(0, physics.Params{Mass: physics.SunMass})
	earth, _ := physics.NewBody(1, physics.Params{
		Position:           physics.Vec3{physics.AU, 0, 0},
		Velocity:           physics.Vec3{0, physics.CircularSpeed(physics.SunMass, physics.AU), 0},
		Mass:               5.972e24,
		TrajectoryCapacity: 4000,
	})

	s, err := sim.New([]*physics.Body{sun, earth}, integrators.NewSymplecticEuler(), physics.Day)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Run(context.Background(), 3650); err != nil {
		t.Fatal(err)
	}

	samples := earth.Trajectory.Slice()
	period, err := OrbitalPeriod(Component(samples, 0), 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(period-365.25) > 3 {
		t.Errorf("year = %.2f days", period)
	}

	peri, apo := Apsides(samples, physics.Point2{})
	if e := Eccentricity(peri, apo); e > 0.02 {
		t.Errorf("circular orbit has eccentricity %g", e)
	}

	if gap := ClosureError(physics.Point2{X: 1}, samples[364]); gap > 0.01 {
		t.Errorf("orbit did not close: %g AU", gap)
	}
}

func TestClosureError(t *testing.T) {
	got := ClosureError(physics.Point2{X: 1, Y: 1}, physics.Point2{X: 4, Y: 5})
	if got != 5 {
		t.Errorf("expected 5, got %g", got)
	}
}

func TestApsides(t *testing.T) {
	samples := []physics.Point2{{X: 1}, {Y: 3}, {X: -2}}
	peri, apo := Apsides(samples, physics.Point2{})
	if peri != 1 || apo != 3 {
		t.Errorf("apsides = %g, %g", peri, apo)
	}
	if e := Eccentricity(peri, apo); e != 0.5 {
		t.Errorf("eccentricity = %g, want 0.5", e)
	}

	if p, a := Apsides(nil, physics.Point2{}); p != 0 || a != 0 {
		t.Error("expected zero apsides for no samples")
	}
}

func TestRelative(t *testing.T) {
	a := []physics.Point2{{X: 1}, {X: 2}, {X: 3}}
	c := []physics.Point2{{X: 1}, {X: 1}}
	got := Relative(a, c)
	if len(got) != 2 || got[0].X != 1 || got[1].X != 2 {
		t.Errorf("relative = %v", got)
	}
}

func TestDivergence(t *testing.T) {
	build := func() ([]*physics.Body, error) {
		sun, err := physics.NewBody(0, physics.Params{Mass: physics.SunMass})
		if err != nil {
			return nil, err
		}
		earth, err := physics.NewBody(1, physics.Params{
			Position: physics.Vec3{physics.AU, 0, 0},
			Velocity: physics.Vec3{0, physics.CircularSpeed(physics.SunMass, physics.AU), 0},
			Mass:     5.972e24,
		})
		if err != nil {
			return nil, err
		}
		return []*physics.Body{sun, earth}, nil
	}

	res, err := Divergence(build, integrators.NewSymplecticEuler(), 1, 1e3, physics.Day, 100)
	if err != nil {
		t.Fatal(err)
	}
	if res.Initial != 1e3 || res.Max < res.Final || res.Final <= 0 {
		t.Errorf("unexpected result %+v", res)
	}

	if _, err := Divergence(build, nil, 5, 1e3, physics.Day, 10); err == nil {
		t.Error("expected error for out of range body")
	}
	if _, err := Divergence(build, nil, 1, 0, physics.Day, 10); err == nil {
		t.Error("expected error for zero perturbation")
	}
}
