package mc

import (
	"context"
	"math"
	"math/rand"

	"github.com/san-kum/mcfluid/internal/fluid"
	"github.com/san-kum/mcfluid/internal/geometry"
)

// Sampler advances a Metropolis chain over Lennard-Jones
// configurations. It owns the live (configuration, energy) pair and its
// random source; the committed Result is the only thing visible
// outside.
type Sampler struct {
	cfg       Config
	box       geometry.Box
	eval      *fluid.Evaluator
	rng       *rand.Rand
	current   fluid.Configuration
	energy    float64
	observers []Observer
}

// NewSampler validates cfg, seeds the deterministic lattice
// configuration and evaluates its energy.
func NewSampler(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	box := geometry.Box{Side: cfg.BoxSide}
	eval := fluid.NewEvaluator(box)
	if cfg.Shards > 1 {
		eval.Shards = cfg.Shards
	}

	current := fluid.Lattice(cfg.N, box)
	energy, err := eval.Total(current)
	if err != nil {
		return nil, &StepError{Step: 0, Wrapped: err}
	}

	return &Sampler{
		cfg:     cfg,
		box:     box,
		eval:    eval,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		current: current,
		energy:  energy,
	}, nil
}

func (s *Sampler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Current returns the last committed configuration and its energy.
func (s *Sampler) Current() (fluid.Configuration, float64) {
	return s.current, s.energy
}

// Run advances the chain cfg.Steps moves. Every proposal, accepted or
// not, commits one trajectory entry; a rejected move carries the
// previous configuration and energy forward unchanged. Cancellation via
// ctx returns the committed prefix together with ctx.Err(); the prefix
// is a valid chain in its own right. A numeric-domain failure aborts at
// its step with the prefix preserved the same way.
func (s *Sampler) Run(ctx context.Context) (*Result, error) {
	res := newResult(s.cfg.Steps)
	res.commit(s.current, s.energy)

	d := s.cfg.displacement()

	for t := 0; t < s.cfg.Steps; t++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		delta := geometry.Vec{
			(2*s.rng.Float64() - 1) * d,
			(2*s.rng.Float64() - 1) * d,
			(2*s.rng.Float64() - 1) * d,
		}
		jt := s.rng.Intn(s.cfg.N)

		accepted, err := s.trialMove(jt, delta)
		if err != nil {
			return res, &StepError{Step: t, Wrapped: err}
		}

		res.commit(s.current, s.energy)
		res.Accepted = append(res.Accepted, accepted)
		res.Steps++

		for _, o := range s.observers {
			o.OnStep(t, s.energy, accepted)
		}
	}

	return res, nil
}

// trialMove displaces particle jt by delta (wrapping into the box),
// applies the Metropolis rule and, on acceptance, replaces the live
// state. The committed configuration is never mutated in place: a
// rejected move leaves the exact previous slice as the current state.
func (s *Sampler) trialMove(jt int, delta geometry.Vec) (bool, error) {
	trial := s.current.Clone()
	trial[jt] = s.box.WrapVec(geometry.Vec{
		trial[jt][0] + delta[0],
		trial[jt][1] + delta[1],
		trial[jt][2] + delta[2],
	})

	trialEnergy, err := s.eval.Total(trial)
	if err != nil {
		return false, err
	}

	accepted := trialEnergy <= s.energy
	if !accepted {
		accepted = s.rng.Float64() <= acceptProbability(trialEnergy-s.energy, s.cfg.Temperature)
	}

	if accepted {
		s.current = trial
		s.energy = trialEnergy
	}
	return accepted, nil
}

// acceptProbability is min(1, exp(-dE/tau)), the Metropolis acceptance
// for a symmetric proposal. Together with that symmetry it makes the
// chain satisfy detailed balance for the Boltzmann distribution.
func acceptProbability(dE, tau float64) float64 {
	if dE <= 0 {
		return 1
	}
	return math.Exp(-dE / tau)
}
