package optimizers

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/hyperparams"
)

type adam struct {
	lr                hyperparams.HyperParameter
	beta1, beta2, eps float64

	// number of steps taken so far
	t int

	// first and second moment estimates, one per parameter, laid out like the parameter's rows
	m, v [][]float64
}

// Adam returns the Adam optimizer with the usual defaults: a constant learning rate of 0.001,
// β1 = 0.9, β2 = 0.999 and ε = 1e-8.
func Adam() *adam {
	return &adam{
		lr:    hyperparams.Constant(0.001),
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
	}
}

// LearningRate sets the step size.
func (a *adam) LearningRate(hp hyperparams.HyperParameter) *adam {
	a.lr = hp
	return a
}

// Betas sets the decay rates of the first and second moment estimates.
func (a *adam) Betas(beta1, beta2 float64) *adam {
	a.beta1, a.beta2 = beta1, beta2
	return a
}

// Epsilon sets the constant added to the denominator of each update.
func (a *adam) Epsilon(eps float64) *adam {
	a.eps = eps
	return a
}

func (a *adam) TypeString() string {
	return "adam"
}

// Reset forgets the moment estimates and the step count, so that the next Step starts over.
func (a *adam) Reset() {
	a.t = 0
	a.m, a.v = nil, nil
}

// Step evaluates p once and applies a single Adam update to its parameters, returning the loss
// measured before the update.
func (a *adam) Step(p Problem) (float64, error) {
	loss, grads, err := p.eval()
	if err != nil {
		return 0, err
	}

	if a.m == nil {
		a.m = make([][]float64, len(p.Params))
		a.v = make([][]float64, len(p.Params))
		for i, prm := range p.Params {
			n := numParams([]*mat.Dense{prm})
			a.m[i] = make([]float64, n)
			a.v[i] = make([]float64, n)
		}
	} else if len(a.m) != len(p.Params) {
		return 0, errors.Errorf("Adam has state for %d parameters, got %d", len(a.m), len(p.Params))
	}

	lr := a.lr.Value(a.t)
	a.t++

	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i, prm := range p.Params {
		m, v := a.m[i], a.v[i]
		r, c := prm.Dims()
		if len(m) != r*c {
			return 0, errors.Errorf("Parameter %d changed size (was %d, now %d)", i, len(m), r*c)
		}

		for row := 0; row < r; row++ {
			ws := prm.RawRowView(row)[:c]
			gs := grads[i].RawRowView(row)[:c]

			for j, g := range gs {
				k := row*c + j
				m[k] = a.beta1*m[k] + (1-a.beta1)*g
				v[k] = a.beta2*v[k] + (1-a.beta2)*g*g

				ws[j] -= lr * (m[k] / c1) / (math.Sqrt(v[k]/c2) + a.eps)
			}
		}
	}

	return loss, nil
}

func (a *adam) Minimize(ctx context.Context, p Problem, maxIter int, progress Progress) error {
	if err := p.check(); err != nil {
		return err
	}

	for it := 0; it < maxIter; it++ {
		loss, err := a.Step(p)
		if err != nil {
			return errors.Wrapf(err, "Adam step %d failed", it)
		}

		if progress != nil {
			progress(it, loss)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
