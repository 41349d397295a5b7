package observables

import (
	"github.com/san-kum/mcfluid/internal/fluid"
	"github.com/san-kum/mcfluid/internal/geometry"
	"github.com/san-kum/mcfluid/internal/mc"
)

// Pressure computes the virial pressure estimate over the selected
// window of a trajectory:
//
//	P = N*tau/V - (1/(W*V)) * sum over window of sum over pairs of r*(-du/dr)
//
// in reduced units, with the pair sum taken once per unordered pair
// (the evaluator's convention). Estimates over the full trajectory and
// over a burn-in-excluded suffix differ while the chain is still
// relaxing; report both.
func Pressure(res *mc.Result, box geometry.Box, tau float64, w Window) (float64, error) {
	if err := w.Validate(len(res.Trajectory)); err != nil {
		return 0, err
	}

	ev := fluid.NewEvaluator(box)
	var sum float64
	for t := w.From; t < w.To; t++ {
		v, err := ev.Virial(res.Trajectory[t])
		if err != nil {
			return 0, &mc.StepError{Step: t, Wrapped: err}
		}
		sum += v
	}

	n := 0
	if len(res.Trajectory) > 0 {
		n = len(res.Trajectory[0])
	}
	vol := box.Volume()
	return float64(n)*tau/vol - sum/(float64(w.Len())*vol), nil
}
