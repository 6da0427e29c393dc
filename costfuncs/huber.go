package costfuncs

import (
	"github.com/sevenysw/waveNN/autodiff"
)

type huber struct {
	δ float64
}

// Huber returns the Huber loss function. δ controls the bounds of the transition between MSE and
// absolute value: errors up to δ cost 0.5*d^2, larger ones δ*(|d| - 0.5*δ).
func Huber(δ float64) *huber {
	return &huber{δ: δ}
}

func (h *huber) TypeString() string {
	return "huber"
}

func (h *huber) Cost(outs, targets *autodiff.Node) (*autodiff.Node, error) {
	if err := checkShapes(h.TypeString(), outs, targets); err != nil {
		return nil, err
	}

	d := abs(autodiff.Sub(targets, outs))

	// clipped = min(d, δ)
	clipped := autodiff.Sub(d, autodiff.ReLU(autodiff.AddScalar(d, -h.δ)))

	quad := autodiff.Scale(autodiff.Square(clipped), 0.5)
	lin := autodiff.Scale(autodiff.Sub(d, clipped), h.δ)
	return autodiff.Mean(autodiff.Add(quad, lin)), nil
}
