package metrics

import (
	"github.com/san-kum/orrery/internal/physics"
)

// Stability is the fraction of ticks on which every body stayed within
// maxRadius meters of the center of mass. It falls below 1 when a body is
// ejected.
type Stability struct {
	name       string
	maxRadius  float64
	violations int
	samples    int
}

func NewStability(maxRadius float64) *Stability {
	return &Stability{
		name:      "stability",
		maxRadius: maxRadius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies []*physics.Body, t float64) {
	s.samples++
	com := physics.CenterOfMass(bodies)
	for _, b := range bodies {
		if b.Position.Sub(com).Len() > s.maxRadius {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
