package costfuncs

import (
	"github.com/sevenysw/waveNN/autodiff"
)

type mse int8

// MSE returns the mean squared error cost function: mean((targets - outs)^2).
func MSE() mse {
	return mse(0)
}

// L2 is a proxy for MSE
func L2() mse {
	return MSE()
}

func (m mse) TypeString() string {
	return "mse"
}

func (m mse) Cost(outs, targets *autodiff.Node) (*autodiff.Node, error) {
	if err := checkShapes(m.TypeString(), outs, targets); err != nil {
		return nil, err
	}

	return MeanSquare(autodiff.Sub(targets, outs)), nil
}
