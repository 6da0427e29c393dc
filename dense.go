package wavenn

import (
	"math/rand"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/autodiff"
	"github.com/sevenysw/waveNN/initializers"
	"github.com/sevenysw/waveNN/operators"
)

// Layer is the set of parameters for one fully-connected transition. W is n_in×n_out, B is
// 1×n_out. Both are autodiff variables whose values are updated in place during training.
type Layer struct {
	W, B *autodiff.Node
}

// Dense is a fully-connected network: every layer but the last is followed by the activation, and
// the last is left linear so that outputs are not bounded by the activation's range.
type Dense struct {
	widths []int
	layers []Layer
	act    operators.Activation
}

// NewDense allocates a Dense network with the given widths, starting from the input width and ending
// with the output width. Weights are set by init (usually initializers.Xavier()), using rng for any
// randomness. Biases start at zero.
func NewDense(name string, widths []int, act operators.Activation, init initializers.Initializer, rng *rand.Rand) (*Dense, error) {
	if len(widths) < 2 {
		return nil, errors.Wrapf(ErrNoLayers, "Can't build %s with widths %v", name, widths)
	}
	for i, w := range widths {
		if w < 1 {
			return nil, errors.Wrapf(ErrBadWidth, "Can't build %s, width %d is %d", name, i, w)
		}
	}

	if act == nil {
		return nil, NilArgError{"Activation"}
	} else if init == nil {
		return nil, NilArgError{"Initializer"}
	} else if rng == nil {
		return nil, NilArgError{"Random source"}
	}

	d := &Dense{
		widths: append([]int(nil), widths...),
		layers: make([]Layer, len(widths)-1),
		act:    act,
	}

	for l := range d.layers {
		in, out := widths[l], widths[l+1]

		ws := make([]float64, in*out)
		init.Set(rng, in, out, ws)

		d.layers[l] = Layer{
			W: autodiff.Var(layerName(name, "W", l), mat.NewDense(in, out, ws)),
			B: autodiff.Var(layerName(name, "b", l), mat.NewDense(1, out, nil)),
		}
	}

	return d, nil
}

func layerName(net, kind string, l int) string {
	return net + "/" + kind + strconv.Itoa(l)
}

// Widths returns a copy of the layer widths the network was built with.
func (d *Dense) Widths() []int {
	return append([]int(nil), d.widths...)
}

// Layers returns the parameters of each layer, in order. The Layers share storage with the network.
func (d *Dense) Layers() []Layer {
	return d.layers
}

// Params returns every weight and bias as a flat list, ordered W0, b0, W1, b1, ...
func (d *Dense) Params() []*autodiff.Node {
	ps := make([]*autodiff.Node, 0, 2*len(d.layers))
	for _, l := range d.layers {
		ps = append(ps, l.W, l.B)
	}
	return ps
}

// Forward evaluates the network on in, which has one row per sample and one column per input.
func (d *Dense) Forward(in *autodiff.Node) (*autodiff.Node, error) {
	if in == nil {
		return nil, NilArgError{"Network input"}
	}
	if _, c := in.Dims(); c != d.widths[0] {
		return nil, SizeMismatchError{Name: "network input columns", Expected: d.widths[0], Got: c}
	}

	h := in
	for i, l := range d.layers {
		h = autodiff.AddRow(autodiff.MatMul(h, l.W), l.B)
		if i < len(d.layers)-1 {
			h = d.act.Apply(h)
		}
	}

	return h, nil
}
