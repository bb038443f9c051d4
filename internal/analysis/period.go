package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: series too short")

// PowerSpectrum returns the magnitude of the first half of the FFT of data
// after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// OrbitalPeriod estimates the dominant period of samples taken every dt,
// returned in the unit of dt. The peak bin is refined by fitting a parabola
// through its neighbours. The series must cover at least two periods for the
// estimate to be meaningful.
func OrbitalPeriod(samples []float64, dt float64) (float64, error) {
	n := len(samples)
	if n < 4 {
		return 0, ErrTooShort
	}

	ps := PowerSpectrum(samples)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, errors.New("analysis: series has no periodic component")
	}

	k := float64(peak)
	if peak > 1 && peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if denom := a - 2*b + c; denom != 0 {
			k += 0.5 * (a - c) / denom
		}
	}

	return float64(n) * dt / k, nil
}

// Sinusoid returns n samples of amplitude*cos(2πt/period) spaced dt apart.
func Sinusoid(n int, dt, period, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Cos(2*math.Pi*float64(i)*dt/period)
	}
	return out
}
