package mc

import (
	"context"
	"sync"
)

// Replicas runs independent chains at a ladder of temperatures. Each
// replica gets its own sampler and seed, so the chains share nothing
// and run concurrently; within a chain the stepping stays strictly
// sequential.
type Replicas struct {
	Base         Config
	Temperatures []float64
	SeedStart    int64
}

func NewReplicas(base Config, temperatures []float64, seedStart int64) *Replicas {
	return &Replicas{Base: base, Temperatures: temperatures, SeedStart: seedStart}
}

// Run executes all replicas and returns their results in temperature
// order. The first error wins; cancellation propagates to every chain.
func (r *Replicas) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(r.Temperatures))
	errs := make([]error, len(r.Temperatures))

	var wg sync.WaitGroup
	for i, tau := range r.Temperatures {
		wg.Add(1)
		go func(idx int, tau float64) {
			defer wg.Done()

			cfg := r.Base
			cfg.Temperature = tau
			cfg.Seed = r.SeedStart + int64(idx)

			s, err := NewSampler(cfg)
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = s.Run(ctx)
		}(i, tau)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
