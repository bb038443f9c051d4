// Package analysis characterizes recorded orbits.
//
//   - [OrbitalPeriod]: dominant period of a coordinate series via FFT
//   - [ClosureError]: gap between the first and last sample of an orbit
//   - [Apsides]: closest and farthest distance from a center
//   - [Divergence]: separation growth between a system and a perturbed copy
//
// # Orbit closure
//
// After one period a stable orbit returns close to its starting point:
//
//	period, _ := analysis.OrbitalPeriod(xs, 1)
//	gap := analysis.ClosureError(samples[0], samples[int(period)])
package analysis
