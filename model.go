package wavenn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/sevenysw/waveNN/autodiff"
	"github.com/sevenysw/waveNN/costfuncs"
	"github.com/sevenysw/waveNN/dataset"
	"github.com/sevenysw/waveNN/initializers"
	"github.com/sevenysw/waveNN/penalties"
)

// Model jointly fits a field u(x, t) and a coefficient c(x) to observations of u, so that together
// they satisfy c·u_xx - u_tt = 0. The field and coefficient are usually a FieldNet and CoefNet, but
// any Functions will do.
type Model struct {
	cfg Config

	field, coef Function
	cost        costfuncs.CostFunction
	penalty     penalties.Penalty

	data dataset.Points

	// observations as a column, and mean(u_obs^2)
	obs   *autodiff.Node
	uNorm float64
}

// LossState is the breakdown of the loss at one set of parameter values. Residual already includes
// the residual weight, so Total = Data + Residual + Penalty.
type LossState struct {
	Data     float64
	Residual float64
	Penalty  float64
	Total    float64

	// UNorm and UPredNorm are mean(u_obs^2) and mean(u^2) at the training points. They are only
	// reported, never optimized.
	UNorm     float64
	UPredNorm float64
}

// NewModel builds a FieldNet over the given bounds (x, t) and a CoefNet over x alone, initialized
// from rng, and returns a Model that fits them to data.
func NewModel(cfg Config, bounds *Bounds, data dataset.Points, rng *rand.Rand) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid config")
	} else if bounds == nil {
		return nil, NilArgError{"Bounds"}
	} else if err := checkSame("bounds dimensions", 2, bounds.Len()); err != nil {
		return nil, err
	} else if rng == nil {
		return nil, NilArgError{"Random source"}
	}

	fieldAct, coefAct, err := cfg.activations()
	if err != nil {
		return nil, err
	}

	fieldInit, err := initializers.New(cfg.Initializer)
	if err != nil {
		return nil, err
	}
	coefInit, err := initializers.New(cfg.Initializer)
	if err != nil {
		return nil, err
	}

	field, err := NewFieldNet(cfg.FieldLayers, bounds, fieldAct, fieldInit, rng)
	if err != nil {
		return nil, err
	}

	xBounds, err := bounds.Dims(0)
	if err != nil {
		return nil, err
	}

	coef, err := NewCoefNet(cfg.CoefLayers, xBounds, coefAct, coefInit, rng)
	if err != nil {
		return nil, err
	}

	return NewModelWith(cfg, field, coef, data)
}

// NewModelWith returns a Model using the given Functions for the field and the coefficient. The
// field takes columns (x, t) and the coefficient takes the single column x.
func NewModelWith(cfg Config, field, coef Function, data dataset.Points) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid config")
	} else if field == nil {
		return nil, NilArgError{"Field function"}
	} else if coef == nil {
		return nil, NilArgError{"Coefficient function"}
	}

	if err := data.Validate(); err != nil {
		return nil, errors.Wrap(err, "Invalid training set")
	} else if data.Len() == 0 {
		return nil, ErrEmptyData
	} else if data.U == nil {
		return nil, errors.Wrap(ErrEmptyData, "Training set has no observations")
	}

	cost, err := costfuncs.New(cfg.DataCost)
	if err != nil {
		return nil, err
	}
	penalty, err := cfg.newPenalty()
	if err != nil {
		return nil, err
	}

	obs := autodiff.Column("u_obs", data.U)
	return &Model{
		cfg:     cfg,
		field:   field,
		coef:    coef,
		cost:    cost,
		penalty: penalty,
		data:    data,
		obs:     obs,
		uNorm:   costfuncs.MeanSquare(obs).Scalar(),
	}, nil
}

// Config returns the Config the Model was built with.
func (m *Model) Config() Config {
	return m.cfg
}

// Field returns the function approximating u(x, t).
func (m *Model) Field() Function {
	return m.field
}

// Coef returns the function approximating c(x).
func (m *Model) Coef() Function {
	return m.coef
}

// Params returns every trainable variable of the field and then the coefficient.
func (m *Model) Params() []*autodiff.Node {
	return append(append([]*autodiff.Node(nil), m.field.Params()...), m.coef.Params()...)
}

// weighted is implemented by Functions that can separate their weights from their biases, so that
// penalties apply only to weights.
type weighted interface {
	Weights() []*autodiff.Node
}

func (m *Model) weights() []*autodiff.Node {
	var ws []*autodiff.Node
	for _, f := range []Function{m.field, m.coef} {
		if w, ok := f.(weighted); ok {
			ws = append(ws, w.Weights()...)
		}
	}
	return ws
}

// evaluation is everything computed at a batch of points. Every field is an n×1 column.
type evaluation struct {
	u, c             *autodiff.Node
	ut, utt, ux, uxx *autodiff.Node

	// residual c·u_xx - u_tt
	f *autodiff.Node
}

// evaluate runs both functions at the points (xs[i], ts[i]) and takes the derivatives of u needed
// for the residual. It is shared by training and prediction.
func (m *Model) evaluate(xs, ts []float64) (*evaluation, error) {
	if err := checkSame("query times", len(xs), len(ts)); err != nil {
		return nil, err
	} else if len(xs) == 0 {
		return nil, errors.Errorf("Can't evaluate at zero points")
	}

	x := autodiff.Column("x", xs)
	t := autodiff.Column("t", ts)

	u, err := m.field.Forward(autodiff.Concat(x, t))
	if err != nil {
		return nil, errors.Wrap(err, "Field forward pass failed")
	}
	c, err := m.coef.Forward(x)
	if err != nil {
		return nil, errors.Wrap(err, "Coefficient forward pass failed")
	}

	if err := checkColumn("field output", u, len(xs)); err != nil {
		return nil, err
	} else if err := checkColumn("coefficient output", c, len(xs)); err != nil {
		return nil, err
	}

	// each row of u depends only on its own (x, t), so gradients of the sum are per-row derivatives
	first := autodiff.Grad(u, x, t)
	ev := &evaluation{
		u:  u,
		c:  c,
		ux: first[0],
		ut: first[1],
	}
	ev.uxx = autodiff.Grad(ev.ux, x)[0]
	ev.utt = autodiff.Grad(ev.ut, t)[0]
	ev.f = autodiff.Sub(autodiff.Mul(c, ev.uxx), ev.utt)

	return ev, nil
}

func checkColumn(name string, n *autodiff.Node, rows int) error {
	r, c := n.Dims()
	if c != 1 {
		return errors.Wrapf(ErrNotScalar, "%s has %d columns", name, c)
	}
	return checkSame(name+" rows", rows, r)
}

// loss assembles the data and residual terms at the training points.
func (m *Model) loss(ev *evaluation) (*autodiff.Node, LossState, error) {
	data, err := m.cost.Cost(ev.u, m.obs)
	if err != nil {
		return nil, LossState{}, errors.Wrap(err, "Data cost failed")
	}

	residual := autodiff.Scale(costfuncs.MeanSquare(ev.f), m.cfg.ResidualWeight)
	total := autodiff.Add(data, residual)

	var penalty float64
	if m.penalty != nil {
		if p := penalties.Sum(m.penalty, m.weights()); p != nil {
			total = autodiff.Add(total, p)
			penalty = p.Scalar()
		}
	}

	return total, LossState{
		Data:      data.Scalar(),
		Residual:  residual.Scalar(),
		Penalty:   penalty,
		Total:     total.Scalar(),
		UNorm:     m.uNorm,
		UPredNorm: costfuncs.MeanSquare(ev.u).Scalar(),
	}, nil
}

// Loss returns the loss at the current parameter values.
func (m *Model) Loss() (LossState, error) {
	ev, err := m.evaluate(m.data.X, m.data.T)
	if err != nil {
		return LossState{}, err
	}

	_, state, err := m.loss(ev)
	return state, err
}
