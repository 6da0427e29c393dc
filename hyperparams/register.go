package hyperparams

import (
	"github.com/pkg/errors"
)

// HyperParameter is a value that may change over the course of training, such as a learning rate.
type HyperParameter interface {
	TypeString() string

	// Value returns the value at the given (zero-based) iteration.
	Value(iter int) float64
}

// Parse returns a Constant for a plain value. It exists so that configuration can hold a number
// while optimizers keep working with HyperParameters.
func Parse(value float64) (HyperParameter, error) {
	if !(value > 0) {
		return nil, errors.Errorf("Hyperparameter value must be > 0 (%v)", value)
	}

	return Constant(value), nil
}

// ParseSteps returns a Step schedule starting at base and changing to steps[i] from iteration i on.
// With no steps it is the same as Parse(base). Every value must be > 0 and every iteration must be
// at least 1, because iteration 0 is base.
func ParseSteps(base float64, steps map[int]float64) (HyperParameter, error) {
	if len(steps) == 0 {
		return Parse(base)
	} else if !(base > 0) {
		return nil, errors.Errorf("Hyperparameter value must be > 0 (%v)", base)
	}

	s := Step(base)
	for iter, v := range steps {
		if iter < 1 {
			return nil, errors.Errorf("Step at iteration %d must come after iteration 0", iter)
		} else if !(v > 0) {
			return nil, errors.Errorf("Step at iteration %d must be > 0 (%v)", iter, v)
		}
		s.At(iter, v)
	}

	return s, nil
}
