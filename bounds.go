package wavenn

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/autodiff"
)

// Bounds are the per-dimension limits of a network's input domain. Networks rescale their inputs so
// that each dimension maps [Lower, Upper] onto [-1, 1] before the first layer. Bounds are not
// changed after construction.
type Bounds struct {
	lower, upper []float64

	// the affine map 2*(x-lower)/(upper-lower) - 1, written as x*scale + offset
	scale, offset *autodiff.Node
}

// NewBounds returns Bounds over len(lower) dimensions. It returns ErrDegenerateBounds if any lower
// bound is not strictly below its upper bound, or either is not finite.
func NewBounds(lower, upper []float64) (*Bounds, error) {
	if len(lower) == 0 {
		return nil, errors.Errorf("Bounds need at least one dimension")
	} else if err := checkSame("upper bounds", len(lower), len(upper)); err != nil {
		return nil, err
	}

	scale := make([]float64, len(lower))
	offset := make([]float64, len(lower))
	for i := range lower {
		lo, hi := lower[i], upper[i]
		if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) || !(lo < hi) {
			return nil, errors.Wrapf(ErrDegenerateBounds, "Dimension %d is [%v, %v]", i, lo, hi)
		}

		scale[i] = 2 / (hi - lo)
		offset[i] = -2*lo/(hi-lo) - 1
	}

	return &Bounds{
		lower:  append([]float64(nil), lower...),
		upper:  append([]float64(nil), upper...),
		scale:  autodiff.Const(mat.NewDense(1, len(scale), scale)),
		offset: autodiff.Const(mat.NewDense(1, len(offset), offset)),
	}, nil
}

// Len returns the number of dimensions.
func (b *Bounds) Len() int {
	return len(b.lower)
}

// Lower returns a copy of the lower bounds.
func (b *Bounds) Lower() []float64 {
	return append([]float64(nil), b.lower...)
}

// Upper returns a copy of the upper bounds.
func (b *Bounds) Upper() []float64 {
	return append([]float64(nil), b.upper...)
}

// Dims returns the Bounds restricted to the given dimensions, in the order given. This is how the
// coefficient network gets bounds over space alone from the bounds over (x, t).
func (b *Bounds) Dims(dims ...int) (*Bounds, error) {
	lower := make([]float64, len(dims))
	upper := make([]float64, len(dims))
	for i, d := range dims {
		if d < 0 || d >= len(b.lower) {
			return nil, errors.Errorf("Dimension %d out of range for %d-dimensional bounds", d, len(b.lower))
		}
		lower[i], upper[i] = b.lower[d], b.upper[d]
	}

	return NewBounds(lower, upper)
}

// Scale maps each column of in from [lower, upper] onto [-1, 1]. The result is differentiable with
// respect to in, so derivatives taken through a network include the factor 2/(upper-lower).
func (b *Bounds) Scale(in *autodiff.Node) (*autodiff.Node, error) {
	if in == nil {
		return nil, NilArgError{"Scaler input"}
	}

	if _, c := in.Dims(); c != len(b.lower) {
		return nil, SizeMismatchError{Name: "scaler input columns", Expected: len(b.lower), Got: c}
	}

	return autodiff.AddRow(autodiff.MulRow(in, b.scale), b.offset), nil
}
