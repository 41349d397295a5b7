package observables

import (
	"errors"
	"fmt"
)

// ErrEmptyWindow indicates a window that selects no trajectory entries.
var ErrEmptyWindow = errors.New("observables: window selects no steps")

// Window selects the half-open index range [From, To) of a trajectory.
type Window struct {
	From, To int
}

// Full covers an entire trajectory of the given length.
func Full(length int) Window { return Window{From: 0, To: length} }

// Suffix excludes the first burnIn entries of a trajectory.
func Suffix(length, burnIn int) Window { return Window{From: burnIn, To: length} }

func (w Window) Len() int { return w.To - w.From }

func (w Window) Validate(length int) error {
	if w.From < 0 || w.To > length || w.From >= w.To {
		return fmt.Errorf("%w: [%d,%d) of %d entries", ErrEmptyWindow, w.From, w.To, length)
	}
	return nil
}
