// Package potential provides the Lennard-Jones pair interaction in
// reduced units (epsilon = sigma = 1).
//
// Every pair contributes at every distance: no cutoff or smoothing is
// applied, since the sampling downstream assumes the exact all-pairs
// energy surface.
package potential

import (
	"errors"
	"fmt"
)

// ErrCoincident indicates a pair distance of zero, where the potential
// diverges. A valid configuration never produces it; seeing one means
// two particles occupy the same point.
var ErrCoincident = errors.New("potential: pair distance must be positive")

// DomainError carries the offending distance for a numeric-domain
// failure in a pair evaluation.
type DomainError struct {
	R       float64
	Wrapped error
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%v (r=%g)", e.Wrapped, e.R)
}

func (e *DomainError) Unwrap() error { return e.Wrapped }

// Energy returns the Lennard-Jones pair energy u(r) = 4(r^-12 - r^-6)
// for a minimum-image distance r. Each unordered pair contributes u(r)
// exactly once to a total energy; the full j!=k double loop of the
// original accumulates 2(r^-12 - r^-6) per ordered visit, which is the
// same convention.
func Energy(r float64) (float64, error) {
	if r <= 0 {
		return 0, &DomainError{R: r, Wrapped: ErrCoincident}
	}
	inv := 1 / r
	inv3 := inv * inv * inv
	inv6 := inv3 * inv3
	return 4 * (inv6*inv6 - inv6), nil
}

// Force returns -du/dr = 24(2r^-13 - r^-7), the radial force magnitude
// between a pair at distance r.
func Force(r float64) (float64, error) {
	if r <= 0 {
		return 0, &DomainError{R: r, Wrapped: ErrCoincident}
	}
	inv := 1 / r
	inv3 := inv * inv * inv
	inv6 := inv3 * inv3
	inv7 := inv6 * inv
	inv13 := inv6 * inv6 * inv
	return 24 * (2*inv13 - inv7), nil
}

// Virial returns the pair virial contribution r * (-du/dr) =
// 24(2r^-12 - r^-6), the quantity the pressure estimator sums over
// pairs. Same once-per-unordered-pair convention as Energy.
func Virial(r float64) (float64, error) {
	f, err := Force(r)
	if err != nil {
		return 0, err
	}
	return r * f, nil
}
