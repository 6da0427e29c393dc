package operators

import "github.com/sevenysw/waveNN/autodiff"

type tanh int8

// Tanh returns an activation that performs an element-wise application of
// the tanh() function. It is the saturating nonlinearity of the field network.
func Tanh() tanh {
	return tanh(0)
}

func (t tanh) TypeString() string {
	return "tanh"
}

func (t tanh) Apply(in *autodiff.Node) *autodiff.Node {
	return autodiff.Tanh(in)
}
