package analysis

import (
	"math"

	"github.com/san-kum/orrery/internal/physics"
)

// ClosureError is the distance between two trajectory samples, in AU.
func ClosureError(start, end physics.Point2) float64 {
	return math.Hypot(end.X-start.X, end.Y-start.Y)
}

// Apsides returns the smallest and largest distance of samples from center.
func Apsides(samples []physics.Point2, center physics.Point2) (peri, apo float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	peri = math.Inf(1)
	for _, p := range samples {
		r := math.Hypot(p.X-center.X, p.Y-center.Y)
		peri = math.Min(peri, r)
		apo = math.Max(apo, r)
	}
	return peri, apo
}

// Eccentricity estimates orbital eccentricity from the apsides.
func Eccentricity(peri, apo float64) float64 {
	if peri+apo == 0 {
		return 0
	}
	return (apo - peri) / (apo + peri)
}

// Component extracts one coordinate of every sample: 0 for x, 1 for y.
func Component(samples []physics.Point2, axis int) []float64 {
	out := make([]float64, len(samples))
	for i, p := range samples {
		if axis == 0 {
			out[i] = p.X
		} else {
			out[i] = p.Y
		}
	}
	return out
}

// Relative returns samples minus the matching samples of center. Both series
// must be sampled on the same ticks; the shorter length wins.
func Relative(samples, center []physics.Point2) []physics.Point2 {
	n := min(len(samples), len(center))
	out := make([]physics.Point2, n)
	off := len(samples) - n
	coff := len(center) - n
	for i := 0; i < n; i++ {
		out[i] = physics.Point2{
			X: samples[off+i].X - center[coff+i].X,
			Y: samples[off+i].Y - center[coff+i].Y,
		}
	}
	return out
}
