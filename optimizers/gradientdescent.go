package optimizers

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/sevenysw/waveNN/hyperparams"
)

type gradientdescent struct {
	lr hyperparams.HyperParameter
}

// GradientDescent returns plain gradient descent: p -= lr * grad. The learning rate defaults to
// a constant 0.001.
func GradientDescent() *gradientdescent {
	return &gradientdescent{hyperparams.Constant(0.001)}
}

// LearningRate sets the learning rate.
func (g *gradientdescent) LearningRate(hp hyperparams.HyperParameter) *gradientdescent {
	g.lr = hp
	return g
}

func (g *gradientdescent) TypeString() string {
	return "sgd"
}

func (g *gradientdescent) Minimize(ctx context.Context, p Problem, maxIter int, progress Progress) error {
	if err := p.check(); err != nil {
		return err
	}

	for it := 0; it < maxIter; it++ {
		loss, grads, err := p.eval()
		if err != nil {
			return err
		}

		lr := g.lr.Value(it)
		for i, m := range p.Params {
			r, c := m.Dims()
			for row := 0; row < r; row++ {
				floats.AddScaled(m.RawRowView(row)[:c], -lr, grads[i].RawRowView(row)[:c])
			}
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
