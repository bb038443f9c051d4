package sim

import (
	"context"
	"sync"
)

// RunAll advances every simulator by steps ticks, each on its own goroutine.
// The simulators must not share bodies.
func RunAll(ctx context.Context, sims []*Simulator, steps int) ([]*Result, error) {
	results := make([]*Result, len(sims))
	errs := make([]error, len(sims))

	var wg sync.WaitGroup
	for i, s := range sims {
		wg.Add(1)
		go func(idx int, s *Simulator) {
			defer wg.Done()
			results[idx], errs[idx] = s.Run(ctx, steps)
		}(i, s)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
