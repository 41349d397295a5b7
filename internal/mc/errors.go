package mc

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates a run parameter outside its valid range.
// Validation happens eagerly, before the chain starts.
var ErrInvalidConfig = errors.New("mc: invalid configuration")

// StepError wraps an error with the Monte Carlo step at which it
// occurred. The trajectory prefix committed before the failing step
// remains valid for inspection.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error { return e.Wrapped }
