// Package penalties provides regularization terms on network weights, added to the loss during
// training.
package penalties

import (
	"github.com/pkg/errors"

	"github.com/sevenysw/waveNN/autodiff"
)

// Penalty is a regularization term on a matrix of weights.
type Penalty interface {
	TypeString() string

	// Penalize returns the penalty on w as a 1×1 Node.
	Penalize(w *autodiff.Node) *autodiff.Node
}

var registry = map[string]func(λ float64) Penalty{}

func init() {
	list := []func(λ float64) Penalty{
		func(λ float64) Penalty { return L1(λ) },
		func(λ float64) Penalty { return L2(λ) },
		func(λ float64) Penalty { return ElasticNet(0.5, λ) },
	}

	for _, f := range list {
		registry[f(0).TypeString()] = f
	}
}

// New returns the Penalty registered with the given name, with strength λ. Elastic net uses an
// even split between L1 and L2.
func New(name string, λ float64) (Penalty, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("Penalty %q is not registered", name)
	} else if !(λ >= 0) {
		return nil, errors.Errorf("Penalty strength must not be negative (%v)", λ)
	}

	return f(λ), nil
}

// Sum returns the total penalty over every matrix in ws. It returns nil if ws is empty.
func Sum(p Penalty, ws []*autodiff.Node) *autodiff.Node {
	var total *autodiff.Node
	for _, w := range ws {
		if total == nil {
			total = p.Penalize(w)
		} else {
			total = autodiff.Add(total, p.Penalize(w))
		}
	}
	return total
}

// abs returns |n| using the identity |x| = relu(x) + relu(-x)
func abs(n *autodiff.Node) *autodiff.Node {
	return autodiff.Add(autodiff.ReLU(n), autodiff.ReLU(autodiff.Neg(n)))
}
