package physics

import "sync"

// ParallelThreshold is the body count below which splitting the force pass
// across goroutines costs more than it saves.
const ParallelThreshold = 16

// ComputeForcesParallel returns the forces ComputeForces would, up to
// rounding. Each unordered pair is still evaluated once: worker w takes rows
// w, w+workers, ... of the upper triangle and accumulates into its own
// buffer, and the buffers are summed once every worker is done.
func ComputeForcesParallel(bodies []*Body, workers int) []Vec3 {
	n := len(bodies)
	if n < ParallelThreshold || workers <= 1 {
		return ComputeForces(bodies)
	}
	workers = min(workers, n)

	local := make([][]Vec3, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		local[w] = make([]Vec3, n)
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			acc := local[w]
			for i := w; i < n; i += workers {
				for j := i + 1; j < n; j++ {
					f := PairForce(bodies[i], bodies[j])
					acc[i] = acc[i].Add(f)
					acc[j] = acc[j].Sub(f)
				}
			}
		}(w)
	}
	wg.Wait()

	forces := make([]Vec3, n)
	for _, acc := range local {
		for i, f := range acc {
			forces[i] = forces[i].Add(f)
		}
	}
	return forces
}
