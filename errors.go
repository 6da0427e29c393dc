package wavenn

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables, and can be compared directly.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned by the package.
var (
	ErrDegenerateBounds = Error{"Bounds are degenerate: every lower bound must be finite and below its upper bound"}
	ErrNoLayers         = Error{"Network needs at least an input and an output width"}
	ErrBadWidth         = Error{"Every layer width must be at least 1"}
	ErrEmptyData        = Error{"Training set is empty"}
	ErrUnknownOptimizer = Error{"Optimizer is not registered"}
	ErrNotScalar        = Error{"Network must have a single output"}
)

// NilArgError documents errors resulting from certain arguments provided to a function being nil.
type NilArgError struct{ string }

func (err NilArgError) Error() string {
	return err.string + " is nil"
}

// SizeMismatchError is returned when two things that must line up, such as the coordinate and
// observation slices of a training set, do not.
type SizeMismatchError struct {
	Name     string
	Expected int
	Got      int
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("Size mismatch for %s: expected %d, got %d", err.Name, err.Expected, err.Got)
}
