package costfuncs

import (
	"github.com/pkg/errors"

	"github.com/sevenysw/waveNN/autodiff"
)

// CostFunction turns network outputs and their targets into a single 1×1 Node, built from
// autodiff operations so it can be differentiated with respect to the network parameters.
type CostFunction interface {
	TypeString() string

	// Cost returns the cost of outs against targets. Both must be the same shape.
	Cost(outs, targets *autodiff.Node) (*autodiff.Node, error)
}

var registry = map[string]func() CostFunction{
	MSE().TypeString():    func() CostFunction { return MSE() },
	Abs().TypeString():    func() CostFunction { return Abs() },
	Huber(1).TypeString(): func() CostFunction { return Huber(1) },
}

// New returns the CostFunction registered with the given name, with default settings.
func New(name string) (CostFunction, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("Cost function %q is not registered", name)
	}

	return f(), nil
}

// MeanSquare returns mean(n^2) as a 1×1 Node.
func MeanSquare(n *autodiff.Node) *autodiff.Node {
	return autodiff.Mean(autodiff.Square(n))
}

func checkShapes(name string, outs, targets *autodiff.Node) error {
	if outs == nil || targets == nil {
		return errors.Errorf("Can't get cost of %q, outputs or targets are nil", name)
	}

	or, oc := outs.Dims()
	tr, tc := targets.Dims()
	if or != tr || oc != tc {
		return errors.Errorf("Can't get cost of %q, outputs are %dx%d but targets are %dx%d", name, or, oc, tr, tc)
	}

	return nil
}

// abs returns |n| using the identity |x| = relu(x) + relu(-x)
func abs(n *autodiff.Node) *autodiff.Node {
	return autodiff.Add(autodiff.ReLU(n), autodiff.ReLU(autodiff.Neg(n)))
}
