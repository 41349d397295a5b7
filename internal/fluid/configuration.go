// Package fluid holds the particle configuration type and the all-pairs
// energy evaluator for a periodic Lennard-Jones system.
package fluid

import (
	"math"

	"github.com/san-kum/mcfluid/internal/geometry"
)

// Configuration maps particle index to position. Every coordinate lies
// in [0, Side) once wrapped; the sampler enforces the wrap on write.
type Configuration []geometry.Vec

func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	copy(out, c)
	return out
}

// Wrap returns a copy with every coordinate mapped into [0, Side).
func (c Configuration) Wrap(box geometry.Box) Configuration {
	out := make(Configuration, len(c))
	for i, p := range c {
		out[i] = box.WrapVec(p)
	}
	return out
}

// IsValid reports whether every particle sits inside the box with
// finite coordinates.
func (c Configuration) IsValid(box geometry.Box) bool {
	for _, p := range c {
		if !box.Contains(p) {
			return false
		}
	}
	return true
}

// Equal reports exact bitwise equality of two configurations.
func (c Configuration) Equal(other Configuration) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Lattice arranges n particles on a deterministic cubic grid inside the
// box, offset half a cell from the walls so no particle touches a
// periodic image of another. The reference system is n=27 on a 3x3x3
// grid.
func Lattice(n int, box geometry.Box) Configuration {
	cells := int(math.Ceil(math.Cbrt(float64(n))))
	if cells < 1 {
		cells = 1
	}
	spacing := box.Side / float64(cells)

	cfg := make(Configuration, 0, n)
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			for k := 0; k < cells; k++ {
				if len(cfg) == n {
					return cfg
				}
				cfg = append(cfg, geometry.Vec{
					(float64(i) + 0.5) * spacing,
					(float64(j) + 0.5) * spacing,
					(float64(k) + 0.5) * spacing,
				})
			}
		}
	}
	return cfg
}
