package wavenn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/sevenysw/waveNN/autodiff"
	"github.com/sevenysw/waveNN/initializers"
	"github.com/sevenysw/waveNN/operators"
)

// Function is a differentiable map from a batch of inputs (one row per sample) to a single output
// column. FieldNet and CoefNet are Functions, but so is anything built from autodiff operations,
// which is how closed-form solutions can stand in for either network.
type Function interface {
	Forward(in *autodiff.Node) (*autodiff.Node, error)

	// Params returns the trainable variables of the Function. It may be empty.
	Params() []*autodiff.Node
}

// scaledNet is a Dense network behind a domain scaler.
type scaledNet struct {
	bounds *Bounds
	net    *Dense
}

func newScaledNet(name string, widths []int, b *Bounds, act operators.Activation, init initializers.Initializer, rng *rand.Rand) (scaledNet, error) {
	if b == nil {
		return scaledNet{}, NilArgError{"Bounds for " + name}
	}

	if init == nil {
		init = initializers.Xavier()
	}

	if len(widths) >= 2 {
		if err := checkSame(name+" input width", b.Len(), widths[0]); err != nil {
			return scaledNet{}, err
		} else if widths[len(widths)-1] != 1 {
			return scaledNet{}, errors.Wrapf(ErrNotScalar, "%s output width is %d", name, widths[len(widths)-1])
		}
	}

	net, err := NewDense(name, widths, act, init, rng)
	if err != nil {
		return scaledNet{}, err
	}

	return scaledNet{b, net}, nil
}

func (s scaledNet) Forward(in *autodiff.Node) (*autodiff.Node, error) {
	scaled, err := s.bounds.Scale(in)
	if err != nil {
		return nil, err
	}

	return s.net.Forward(scaled)
}

func (s scaledNet) Params() []*autodiff.Node {
	return s.net.Params()
}

// Weights returns the weight matrix of every layer, without the biases.
func (s scaledNet) Weights() []*autodiff.Node {
	ws := make([]*autodiff.Node, len(s.net.layers))
	for i, l := range s.net.layers {
		ws[i] = l.W
	}
	return ws
}

// Dense returns the underlying network.
func (s scaledNet) Dense() *Dense {
	return s.net
}

// FieldNet approximates u(x, t). Its input has two columns, x then t, and it uses tanh between
// layers unless told otherwise.
type FieldNet struct {
	scaledNet
}

// NewFieldNet builds a FieldNet with the given widths, which must start at 2 and end at 1. b must
// cover both x and t. A nil act uses tanh, and a nil init uses initializers.Xavier().
func NewFieldNet(widths []int, b *Bounds, act operators.Activation, init initializers.Initializer, rng *rand.Rand) (*FieldNet, error) {
	if act == nil {
		act = operators.Tanh()
	}

	s, err := newScaledNet("field", widths, b, act, init, rng)
	if err != nil {
		return nil, errors.Wrap(err, "Couldn't build field network")
	}
	return &FieldNet{s}, nil
}

// CoefNet approximates the coefficient c(x). Its input is the single column x, and it uses ReLU
// between layers unless told otherwise.
type CoefNet struct {
	scaledNet
}

// NewCoefNet builds a CoefNet with the given widths, which must start and end at 1. b must cover x
// alone. A nil act uses ReLU, and a nil init uses initializers.Xavier().
func NewCoefNet(widths []int, b *Bounds, act operators.Activation, init initializers.Initializer, rng *rand.Rand) (*CoefNet, error) {
	if act == nil {
		act = operators.ReLU()
	}

	s, err := newScaledNet("coef", widths, b, act, init, rng)
	if err != nil {
		return nil, errors.Wrap(err, "Couldn't build coefficient network")
	}
	return &CoefNet{s}, nil
}
