package mc

import (
	"fmt"

	"github.com/san-kum/mcfluid/internal/fluid"
)

// Config fixes the parameters of one chain. Zero Displacement means
// full-box proposals (the reference behavior); anything smaller turns
// the walk into textbook small-step Metropolis.
type Config struct {
	N            int     // particle count
	BoxSide      float64 // cubic box side L
	Temperature  float64 // tau, Metropolis acceptance scale
	Steps        int     // M, number of proposed moves
	BurnIn       int     // leading steps excluded from averages
	Displacement float64 // half-width of the trial displacement
	Seed         int64   // RNG seed; chains with equal Config replay exactly
	Shards       int     // energy-reduction goroutines, <=1 serial
}

// Validate rejects invalid parameters before the chain starts.
func (c Config) Validate() error {
	switch {
	case c.N <= 0:
		return fmt.Errorf("%w: particle count %d, need > 0", ErrInvalidConfig, c.N)
	case c.BoxSide <= 0:
		return fmt.Errorf("%w: box side %g, need > 0", ErrInvalidConfig, c.BoxSide)
	case c.Temperature <= 0:
		return fmt.Errorf("%w: temperature %g, need > 0", ErrInvalidConfig, c.Temperature)
	case c.Steps < 1:
		return fmt.Errorf("%w: step count %d, need >= 1", ErrInvalidConfig, c.Steps)
	case c.BurnIn < 0 || c.BurnIn >= c.Steps:
		return fmt.Errorf("%w: burn-in %d, need 0 <= burn-in < %d", ErrInvalidConfig, c.BurnIn, c.Steps)
	case c.Displacement < 0:
		return fmt.Errorf("%w: displacement %g, need >= 0", ErrInvalidConfig, c.Displacement)
	}
	return nil
}

// displacement resolves the proposal half-width, defaulting to the full
// box side.
func (c Config) displacement() float64 {
	if c.Displacement == 0 {
		return c.BoxSide
	}
	return c.Displacement
}

// Result is the externally visible artifact of a run: the committed
// trajectory with its energy and acceptance traces. Index 0 is the
// initial lattice state; index t+1 follows from index t by exactly one
// proposed move. Each index is written once by the sampler and
// read-only afterwards.
type Result struct {
	Trajectory []fluid.Configuration
	Energies   []float64
	Accepted   []bool
	Steps      int // steps actually committed (equals len(Accepted))
}

func newResult(steps int) *Result {
	return &Result{
		Trajectory: make([]fluid.Configuration, 0, steps+1),
		Energies:   make([]float64, 0, steps+1),
		Accepted:   make([]bool, 0, steps),
	}
}

func (r *Result) commit(cfg fluid.Configuration, energy float64) {
	r.Trajectory = append(r.Trajectory, cfg)
	r.Energies = append(r.Energies, energy)
}

// AcceptanceRate returns the fraction of proposed moves accepted.
func (r *Result) AcceptanceRate() float64 {
	if len(r.Accepted) == 0 {
		return 0
	}
	n := 0
	for _, a := range r.Accepted {
		if a {
			n++
		}
	}
	return float64(n) / float64(len(r.Accepted))
}

// Observer is notified after every committed step. Used by the live
// view; observers must not mutate the configuration.
type Observer interface {
	OnStep(step int, energy float64, accepted bool)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(step int, energy float64, accepted bool)

func (f ObserverFunc) OnStep(step int, energy float64, accepted bool) {
	f(step, energy, accepted)
}
