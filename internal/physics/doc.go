// Package physics models the bodies of a gravitational system and the forces
// between them.
//
// A simulation tick is split in two passes:
//
//   - [ComputeForces] reads every [Body] and returns the net force on each one,
//     evaluating every unordered pair exactly once (Newton's third law).
//   - [ApplyForces] adds those forces to each body's accumulator, after which an
//     integrator advances the bodies independently.
//
// Keeping the passes separate makes the ordering explicit: no body may be
// integrated until the force pass over all pairs has completed.
//
// # Units
//
// Positions are meters, velocities m/s, masses kg. Display coordinates
// (trajectories, camera transforms) are meters divided by [AU].
package physics
