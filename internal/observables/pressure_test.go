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

// resultWith wraps raw configurations in a Result the way a finished
// run would expose them.
func resultWith(cfgs ...fluid.Configuration) *mc.Result {
	return &mc.Result{Trajectory: cfgs, Steps: len(cfgs) - 1}
}

func TestPressureTwoParticleClosedForm(t *testing.T) {
	box := geometry.Box{Side: 100.0}
	tau := 2.0
	r := 1.2

	cfg := fluid.Configuration{
		{10, 10, 10},
		{10 + r, 10, 10},
	}
	res := resultWith(cfg)

	got, err := Pressure(res, box, tau, Full(1))
	require.NoError(t, err)

	vol := box.Volume()
	virial := 24 * (2*math.Pow(r, -12) - math.Pow(r, -6))
	want := 2*tau/vol - virial/vol
	assert.InDelta(t, want, got, 1e-15)
}

func TestPressureIdealGasLimit(t *testing.T) {
	// Low density, high temperature: the virial correction shrinks and
	// the estimate approaches N*tau/V.
	box := geometry.Box{Side: 30.0}
	tau := 10.0
	cfg := fluid.Lattice(8, box)
	res := resultWith(cfg, cfg, cfg)

	got, err := Pressure(res, box, tau, Full(3))
	require.NoError(t, err)

	ideal := 8 * tau / box.Volume()
	assert.InDelta(t, ideal, got, 1e-4*ideal,
		"dilute high-temperature pressure should approach the ideal gas value")
}

func TestPressureWindowsConvergeAfterBurnIn(t *testing.T) {
	// Synthetic relaxation: the first fifth of the trajectory is a
	// compressed, high-virial state, the rest an equilibrated lattice.
	box := geometry.Box{Side: 6.0}
	tau := 2.0

	relaxed := fluid.Lattice(27, box)
	compressed := make(fluid.Configuration, len(relaxed))
	for i, p := range relaxed {
		for k := range p {
			p[k] = 2.0 + (p[k]-2.0)*0.45 // squeeze toward one corner
		}
		compressed[i] = p
	}

	const total = 100
	traj := make([]fluid.Configuration, total)
	for i := range traj {
		if i < total/5 {
			traj[i] = compressed
		} else {
			traj[i] = relaxed
		}
	}
	res := &mc.Result{Trajectory: traj, Steps: total - 1}

	full, err := Pressure(res, box, tau, Full(total))
	require.NoError(t, err)
	lastHalf, err := Pressure(res, box, tau, Suffix(total, total/2))
	require.NoError(t, err)
	firstTenth, err := Pressure(res, box, tau, Window{From: 0, To: total / 10})
	require.NoError(t, err)
	lastTenth, err := Pressure(res, box, tau, Suffix(total, total-total/10))
	require.NoError(t, err)

	// The burn-in-excluded estimate sits closer to the full average
	// than the early window sits to the late one.
	assert.Less(t, math.Abs(lastHalf-full), math.Abs(firstTenth-lastTenth))
	// And once burn-in is gone the estimate is stable.
	assert.InDelta(t, lastTenth, lastHalf, 1e-9)
}

func TestPressureEmptyWindow(t *testing.T) {
	box := geometry.Box{Side: 6.0}
	res := resultWith(fluid.Lattice(8, box))

	for _, w := range []Window{
		{From: 0, To: 0},
		{From: 1, To: 1},
		{From: 2, To: 1},
		{From: -1, To: 1},
		{From: 0, To: 5},
	} {
		_, err := Pressure(res, box, 1.0, w)
		assert.ErrorIsf(t, err, ErrEmptyWindow, "window %+v", w)
	}
}

func TestPressureCoincidentParticles(t *testing.T) {
	box := geometry.Box{Side: 6.0}
	res := resultWith(fluid.Configuration{{1, 1, 1}, {1, 1, 1}})

	_, err := Pressure(res, box, 1.0, Full(1))
	require.Error(t, err)

	var se *mc.StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Step)
}
