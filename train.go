package wavenn

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/autodiff"
	"github.com/sevenysw/waveNN/optimizers"
)

// Result is a status update sent back during training.
type Result struct {
	// The zero-based iteration that has just finished
	Iteration int

	// The loss after that iteration's update
	Loss LossState

	// Wall-clock time since training started
	Elapsed time.Duration
}

// TrainArgs are the arguments to Train. Every field may be left at its zero value.
type TrainArgs struct {
	// Iterations is the maximum number of optimizer iterations. If zero, the Config's Iterations
	// is used.
	Iterations int

	// Optimizer is the strategy used to minimize the loss. If nil, a fresh optimizer is built from
	// the Config. Passing the same Optimizer to successive calls continues from its state.
	Optimizer optimizers.Optimizer

	// SendStatus indicates whether or not to send back a Result after the given iteration. If nil,
	// the Config's ReportEvery is used, through Every.
	SendStatus func(int) bool

	// Update is how status updates are returned. It can be left nil.
	Update func(Result)
}

// TrainResult summarizes a call to Train.
type TrainResult struct {
	// Iterations is the number of iterations completed.
	Iterations int

	// LossHistory holds the total loss reported by the optimizer for each iteration. First-order
	// optimizers report the loss before their update, L-BFGS the loss after its line search.
	LossHistory []float64

	// Final is the loss at the parameters Train left behind.
	Final LossState

	Elapsed time.Duration
}

// problem exposes the Model's parameters and loss to an optimizer. The matrices in Params are the
// same ones held by the networks, so optimizer updates are seen by the next evaluation.
func (m *Model) problem() optimizers.Problem {
	params := m.Params()
	values := make([]*mat.Dense, len(params))
	for i, p := range params {
		values[i] = p.Value()
	}

	return optimizers.Problem{
		Params: values,
		Eval: func() (float64, []*mat.Dense, error) {
			ev, err := m.evaluate(m.data.X, m.data.T)
			if err != nil {
				return 0, nil, err
			}

			total, _, err := m.loss(ev)
			if err != nil {
				return 0, nil, err
			}

			gs := autodiff.Grad(total, params...)
			grads := make([]*mat.Dense, len(gs))
			for i, g := range gs {
				grads[i] = g.Value()
			}

			return total.Scalar(), grads, nil
		},
	}
}

// Train minimizes the loss over the parameters of both functions. It blocks until the iterations
// run out, the optimizer converges, or ctx is done. Cancellation takes effect after the current
// iteration; the partial TrainResult is returned along with the context's error.
//
// Non-finite losses are not treated as errors. They show up in the status updates and the history.
func (m *Model) Train(ctx context.Context, args TrainArgs) (*TrainResult, error) {
	// handle error cases and set defaults
	{
		if args.Iterations < 0 {
			return nil, errors.Errorf("Iterations must not be negative, got %d", args.Iterations)
		} else if args.Iterations == 0 {
			args.Iterations = m.cfg.Iterations
		}

		if args.Optimizer == nil {
			opt, err := m.cfg.NewOptimizer()
			if err != nil {
				return nil, err
			}
			args.Optimizer = opt
		}

		if args.SendStatus == nil {
			args.SendStatus = Every(m.cfg.ReportEvery)
		}

		if args.Update == nil {
			args.Update = func(Result) {}
		}
	}

	if len(m.Params()) == 0 {
		return nil, errors.Errorf("Model has no trainable parameters")
	}

	start := time.Now()
	res := &TrainResult{LossHistory: make([]float64, 0, args.Iterations)}

	var statusErr error
	progress := func(iter int, loss float64) {
		res.Iterations = iter + 1
		res.LossHistory = append(res.LossHistory, loss)

		if statusErr != nil || !args.SendStatus(iter) {
			return
		}

		state, err := m.Loss()
		if err != nil {
			statusErr = errors.Wrapf(err, "Measuring loss after iteration %d failed", iter)
			return
		}

		args.Update(Result{
			Iteration: iter,
			Loss:      state,
			Elapsed:   time.Since(start),
		})
	}

	err := args.Optimizer.Minimize(ctx, m.problem(), args.Iterations, progress)
	res.Elapsed = time.Since(start)

	if statusErr != nil {
		return res, statusErr
	}

	var lossErr error
	res.Final, lossErr = m.Loss()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Cause(err) == ctxErr {
			return res, err
		}
		return res, errors.Wrapf(err, "Training with %s failed", args.Optimizer.TypeString())
	}

	return res, lossErr
}
