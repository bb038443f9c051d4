package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/physics"
	"github.com/san-kum/orrery/internal/sim"
)

type DivergenceResult struct {
	Initial float64 // m
	Final   float64 // m
	Max     float64 // m
	// Rate is the mean of ln(sep/initial)/t over the run, per second. A
	// positive rate that keeps growing with run length indicates chaos.
	Rate float64
}

// Divergence runs base and a copy whose body index is displaced by
// perturbation meters along x, and tracks how far that body's two copies
// drift apart. build must return a fresh body list on every call.
func Divergence(
	build func() ([]*physics.Body, error),
	integ integrators.Integrator,
	index int,
	perturbation, dt float64,
	steps int,
) (*DivergenceResult, error) {
	if perturbation <= 0 {
		return nil, errors.New("analysis: perturbation must be positive")
	}

	a, err := build()
	if err != nil {
		return nil, err
	}
	b, err := build()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(a) || len(a) != len(b) {
		return nil, errors.New("analysis: body index out of range")
	}
	b[index].Position = b[index].Position.Add(physics.Vec3{perturbation, 0, 0})

	sa, err := sim.New(a, integ, dt)
	if err != nil {
		return nil, err
	}
	sb, err := sim.New(b, integ, dt)
	if err != nil {
		return nil, err
	}

	res := &DivergenceResult{Initial: perturbation}
	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		if err := sa.Tick(); err != nil {
			return res, err
		}
		if err := sb.Tick(); err != nil {
			return res, err
		}

		sep := b[index].Position.Sub(a[index].Position).Len()
		res.Final = sep
		res.Max = math.Max(res.Max, sep)

		if sep > 0 && sa.Time() > 0 {
			sumLog += math.Log(sep/perturbation) / sa.Time()
			count++
		}
	}

	if count > 0 {
		res.Rate = sumLog / float64(count)
	}
	return res, nil
}
