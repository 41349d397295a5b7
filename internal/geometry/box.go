package geometry

import "math"

// Vec is a position in 3-space.
type Vec [3]float64

// Box is a cubic periodic domain of side Side. All pair distances inside
// the box follow the minimum-image convention.
type Box struct {
	Side float64
}

func (b Box) Volume() float64 { return b.Side * b.Side * b.Side }

// Wrap maps a coordinate into [0, Side).
func (b Box) Wrap(x float64) float64 {
	x = math.Mod(x, b.Side)
	if x < 0 {
		x += b.Side
	}
	return x
}

// WrapVec wraps every component of v into [0, Side).
func (b Box) WrapVec(v Vec) Vec {
	for i := range v {
		v[i] = b.Wrap(v[i])
	}
	return v
}

// Contains reports whether every component of v lies in [0, Side).
func (b Box) Contains(v Vec) bool {
	for _, x := range v {
		if math.IsNaN(x) || x < 0 || x >= b.Side {
			return false
		}
	}
	return true
}

// MinimumImage returns the shortest separation between two scalar
// coordinates under a periodic box of side L, together with the image
// shift (in whole box lengths, -1, 0 or +1) that realizes it.
//
// The candidates are |xi-xj|, |xi-xj+L| and |xi-xj-L|. The unshifted
// image wins only when strictly smaller than both shifted ones, so an
// exact half-box separation resolves to a shifted image (+1 when
// xi-xj = -L/2, -1 when xi-xj = +L/2), and a tie between the two
// shifted candidates resolves to +1. The comparison order is asymmetric
// on purpose: existing runs depend on it bit for bit.
func MinimumImage(xi, xj, L float64) (shift int, dist float64) {
	d0 := math.Abs(xi - xj)
	dp := math.Abs(xi - xj + L)
	dm := math.Abs(xi - xj - L)

	if d0 < dp && d0 < dm {
		return 0, d0
	}
	if dp <= dm {
		return +1, dp
	}
	return -1, dm
}

// PairDistance returns the minimum-image Euclidean distance between p
// and q, plus the per-axis image shifts that realize it. The shifts are
// exposed for force-decomposition consumers; the distance alone drives
// the energy and virial sums.
func (b Box) PairDistance(p, q Vec) (dist float64, shifts [3]int) {
	var sum float64
	for i := 0; i < 3; i++ {
		s, d := MinimumImage(p[i], q[i], b.Side)
		shifts[i] = s
		sum += d * d
	}
	return math.Sqrt(sum), shifts
}
