package observables

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/san-kum/mcfluid/internal/fluid"
	"github.com/san-kum/mcfluid/internal/geometry"
	"github.com/san-kum/mcfluid/internal/mc"
)

// ErrUnderflow indicates that every insertion hit an overlap so hard
// that the mean Boltzmann factor rounded to zero, leaving the logarithm
// undefined. It marks an extreme regime (very high density or very low
// temperature), not a programming error.
var ErrUnderflow = errors.New("observables: mean Boltzmann factor underflowed to zero")

// Widom estimates the excess chemical potential by virtual particle
// insertion. Trials probes are drawn uniformly in the box for each
// configuration in the window; the estimate is
//
//	mu_ex = -tau * ln( < exp(-dE/tau) > )
//
// averaged over every trial. Insertions never perturb the real system,
// so configurations are processed independently: Workers > 1 shards
// them across goroutines. Each configuration derives its own RNG from
// Seed and the step index, so results do not depend on the worker
// count.
type Widom struct {
	Trials  int
	Seed    int64
	Workers int
}

func (wd Widom) ChemicalPotential(res *mc.Result, box geometry.Box, tau float64, w Window) (float64, error) {
	if wd.Trials < 1 {
		return 0, fmt.Errorf("%w: insertion trials %d, need >= 1", mc.ErrInvalidConfig, wd.Trials)
	}
	if err := w.Validate(len(res.Trajectory)); err != nil {
		return 0, err
	}

	workers := wd.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > w.Len() {
		workers = w.Len()
	}

	sums := make([]float64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for k := 0; k < workers; k++ {
		go func(k int) {
			defer wg.Done()
			ev := fluid.NewEvaluator(box)
			for t := w.From + k; t < w.To; t += workers {
				s, err := wd.insertInto(ev, res.Trajectory[t], tau, t)
				if err != nil {
					errs[k] = err
					return
				}
				sums[k] += s
			}
		}(k)
	}
	wg.Wait()

	var sum float64
	for k := 0; k < workers; k++ {
		if errs[k] != nil {
			return 0, errs[k]
		}
		sum += sums[k]
	}

	trials := w.Len() * wd.Trials
	mean := sum / float64(trials)
	if mean <= 0 {
		return 0, fmt.Errorf("%w: %d trials over window [%d,%d)", ErrUnderflow, trials, w.From, w.To)
	}
	return -tau * math.Log(mean), nil
}

// insertInto sums exp(-dE/tau) over Trials probes against one
// configuration.
func (wd Widom) insertInto(ev *fluid.Evaluator, cfg fluid.Configuration, tau float64, step int) (float64, error) {
	rng := rand.New(rand.NewSource(wd.Seed + int64(step)))

	var sum float64
	for trial := 0; trial < wd.Trials; trial++ {
		probe := geometry.Vec{
			rng.Float64() * ev.Box.Side,
			rng.Float64() * ev.Box.Side,
			rng.Float64() * ev.Box.Side,
		}
		dE, err := ev.InsertionEnergy(cfg, probe)
		if err != nil {
			return 0, &mc.StepError{Step: step, Wrapped: fmt.Errorf("insertion trial %d: %w", trial, err)}
		}
		sum += math.Exp(-dE / tau)
	}
	return sum, nil
}
