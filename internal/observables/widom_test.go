package observables

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mcfluid/internal/fluid"
	"github.com/san-kum/mcfluid/internal/geometry"
	"github.com/san-kum/mcfluid/internal/mc"
)

func TestWidomIdealGasLimit(t *testing.T) {
	// Two particles lost in a huge box: almost every insertion sees no
	// interaction, so the excess chemical potential is near zero.
	box := geometry.Box{Side: 40.0}
	tau := 5.0
	cfg := fluid.Configuration{
		{5, 5, 5},
		{35, 35, 35},
	}
	res := resultWith(cfg, cfg, cfg, cfg)

	wd := Widom{Trials: 200, Seed: 11}
	mu, err := wd.ChemicalPotential(res, box, tau, Full(4))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, mu, 0.1)
}

func TestWidomUnderflow(t *testing.T) {
	// A box so small that every probe overlaps the repulsive core; the
	// Boltzmann factor underflows to zero and the logarithm is refused
	// rather than returned as -Inf.
	box := geometry.Box{Side: 0.5}
	tau := 1.0
	cfg := fluid.Configuration{
		{0.1, 0.1, 0.1},
		{0.4, 0.4, 0.4},
	}
	res := resultWith(cfg)

	wd := Widom{Trials: 10, Seed: 3}
	_, err := wd.ChemicalPotential(res, box, tau, Full(1))
	require.ErrorIs(t, err, ErrUnderflow)
}

func TestWidomWorkerCountInvariance(t *testing.T) {
	box := geometry.Box{Side: 6.0}
	tau := 2.0
	traj := make([]fluid.Configuration, 20)
	for i := range traj {
		traj[i] = fluid.Lattice(27, box)
	}
	res := &mc.Result{Trajectory: traj, Steps: len(traj) - 1}

	serial := Widom{Trials: 50, Seed: 42, Workers: 1}
	want, err := serial.ChemicalPotential(res, box, tau, Full(20))
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 32} {
		wd := Widom{Trials: 50, Seed: 42, Workers: workers}
		got, err := wd.ChemicalPotential(res, box, tau, Full(20))
		require.NoErrorf(t, err, "workers=%d", workers)
		assert.InDeltaf(t, want, got, 1e-12*math.Max(1, math.Abs(want)),
			"workers=%d: per-step RNG must make the estimate worker-independent", workers)
	}
}

func TestWidomWindowRestriction(t *testing.T) {
	// Distinct configurations in and out of the window: moving the
	// window must move the estimate.
	box := geometry.Box{Side: 6.0}
	tau := 2.0

	sparse := fluid.Lattice(8, box)
	dense := fluid.Lattice(27, box)
	res := resultWith(sparse, sparse, dense, dense)

	wd := Widom{Trials: 100, Seed: 9}
	early, err := wd.ChemicalPotential(res, box, tau, Window{From: 0, To: 2})
	require.NoError(t, err)
	late, err := wd.ChemicalPotential(res, box, tau, Suffix(4, 2))
	require.NoError(t, err)

	assert.NotEqual(t, early, late)
}

func TestWidomInvalidInput(t *testing.T) {
	box := geometry.Box{Side: 6.0}
	res := resultWith(fluid.Lattice(8, box))

	_, err := Widom{Trials: 0}.ChemicalPotential(res, box, 1.0, Full(1))
	assert.ErrorIs(t, err, mc.ErrInvalidConfig)

	_, err = Widom{Trials: 10}.ChemicalPotential(res, box, 1.0, Window{From: 1, To: 1})
	assert.ErrorIs(t, err, ErrEmptyWindow)
}
