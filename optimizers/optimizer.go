package optimizers

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Problem is what an Optimizer minimizes: a set of parameters that are changed in place, and a way
// to measure the loss at their current values.
type Problem struct {
	Params []*mat.Dense

	// Eval returns the loss at the current values of Params, along with its gradient with
	// respect to each of them, in the same order and with the same shapes.
	Eval func() (float64, []*mat.Dense, error)
}

// Progress receives the zero-based iteration number and the loss measured during that iteration.
type Progress func(iter int, loss float64)

// Optimizer is a strategy for minimizing a Problem.
type Optimizer interface {
	TypeString() string

	// Minimize runs at most maxIter iterations on p, leaving p.Params at the final values. An
	// Optimizer with a limit of its own (like LBFGS) applies whichever limit is lower, and uses its
	// own when maxIter <= 0. Others run no iterations in that case. progress may be nil. Minimize stops after the current iteration once ctx is done, returning
	// the context's error.
	Minimize(ctx context.Context, p Problem, maxIter int, progress Progress) error
}

func (p Problem) check() error {
	if p.Eval == nil {
		return errors.Errorf("Problem has no Eval function")
	} else if len(p.Params) == 0 {
		return errors.Errorf("Problem has no parameters")
	}

	for i, m := range p.Params {
		if m == nil {
			return errors.Errorf("Parameter %d is nil", i)
		}
	}

	return nil
}

// eval calls p.Eval and checks that the returned gradients line up with the parameters.
func (p Problem) eval() (float64, []*mat.Dense, error) {
	loss, grads, err := p.Eval()
	if err != nil {
		return 0, nil, errors.Wrap(err, "Evaluating loss failed")
	}

	if len(grads) != len(p.Params) {
		return 0, nil, errors.Errorf("Got %d gradients for %d parameters", len(grads), len(p.Params))
	}

	for i := range grads {
		pr, pc := p.Params[i].Dims()
		gr, gc := grads[i].Dims()
		if pr != gr || pc != gc {
			return 0, nil, errors.Errorf("Gradient %d is %dx%d, parameter is %dx%d", i, gr, gc, pr, pc)
		}
	}

	return loss, grads, nil
}

// numParams returns the total number of values in ms.
func numParams(ms []*mat.Dense) int {
	n := 0
	for _, m := range ms {
		r, c := m.Dims()
		n += r * c
	}
	return n
}

// flatten copies every value of ms, in order, into dst (which is grown if needed).
func flatten(dst []float64, ms []*mat.Dense) []float64 {
	dst = dst[:0]
	for _, m := range ms {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			dst = append(dst, m.RawRowView(i)[:c]...)
		}
	}
	return dst
}

// unflatten is the inverse of flatten, writing xs back into ms in place.
func unflatten(xs []float64, ms []*mat.Dense) {
	off := 0
	for _, m := range ms {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			copy(m.RawRowView(i)[:c], xs[off:off+c])
			off += c
		}
	}
}
