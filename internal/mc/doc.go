// Package mc implements Metropolis Monte Carlo sampling of a periodic
// Lennard-Jones fluid.
//
// A [Sampler] owns exactly one live state, the pair (configuration,
// energy), and advances it one proposed single-particle move at a time:
//
//	s, err := mc.NewSampler(cfg)
//	res, err := s.Run(ctx)
//
// Every step, accepted or rejected, commits a configuration into the
// result, so the trajectory length is always Steps+1 and every entry
// contributes to downstream ensemble averages. The chain is strictly
// sequential; [Replicas] runs independent chains at several
// temperatures in parallel instead.
//
// Detailed balance holds because the proposal is symmetric (uniform
// displacement of a uniformly chosen particle) and acceptance follows
// min(1, exp(-dE/tau)).
package mc
