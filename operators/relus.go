// relus.go contains the activation functions derived from relu:
// * ReLU
// * Leaky ReLU
package operators

import (
	"github.com/sevenysw/waveNN/autodiff"
)

// ****************************************
// ReLU
// ****************************************

type relu int8

// ReLU returns the standard rectified linear unit. It is the nonlinearity of the coefficient
// network.
func ReLU() relu {
	return relu(0)
}

func (t relu) TypeString() string {
	return "relu"
}

func (t relu) Apply(in *autodiff.Node) *autodiff.Node {
	return autodiff.ReLU(in)
}

// ****************************************
// Leaky ReLU
// ****************************************

type lrelu float64

// LeakyReLU returns a standard 'leaky ReLU', where the leaky factor is given by alpha.
func LeakyReLU(alpha float64) lrelu {
	return lrelu(alpha)
}

func (t lrelu) TypeString() string {
	return "leaky-relu"
}

// leaky(x) = relu(x) - alpha*relu(-x)
func (t lrelu) Apply(in *autodiff.Node) *autodiff.Node {
	neg := autodiff.ReLU(autodiff.Neg(in))
	return autodiff.Sub(autodiff.ReLU(in), autodiff.Scale(neg, float64(t)))
}
