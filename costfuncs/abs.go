package costfuncs

import (
	"github.com/sevenysw/waveNN/autodiff"
)

type absolute int8

// Abs returns the mean absolute error cost function: mean(|targets - outs|).
func Abs() absolute {
	return absolute(0)
}

// L1 is a proxy for Abs
func L1() absolute {
	return Abs()
}

func (a absolute) TypeString() string {
	return "abs"
}

func (a absolute) Cost(outs, targets *autodiff.Node) (*autodiff.Node, error) {
	if err := checkShapes(a.TypeString(), outs, targets); err != nil {
		return nil, err
	}

	return autodiff.Mean(abs(autodiff.Sub(targets, outs))), nil
}
