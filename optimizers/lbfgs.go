package optimizers

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

type lbfgs struct {
	store      int
	maxIters   int
	maxEvals   int
	lineSearch int
	tolerance  float64
}

// LBFGS returns a limited-memory BFGS optimizer backed by gonum's optimize package. It keeps 50
// correction pairs, runs up to 50000 iterations and 50000 loss evaluations, gives up on a line
// search after 50 steps, and stops once the relative change in loss falls below machine epsilon.
func LBFGS() *lbfgs {
	return &lbfgs{
		store:      50,
		maxIters:   50000,
		maxEvals:   50000,
		lineSearch: 50,
		tolerance:  2.220446049250313e-16,
	}
}

// Store sets the number of past updates kept to approximate the inverse Hessian.
func (l *lbfgs) Store(n int) *lbfgs {
	l.store = n
	return l
}

// MaxIterations sets the limit on the number of iterations, used when Minimize is given a larger
// one (or none).
func (l *lbfgs) MaxIterations(n int) *lbfgs {
	l.maxIters = n
	return l
}

// MaxEvals sets the limit on the number of loss evaluations.
func (l *lbfgs) MaxEvals(n int) *lbfgs {
	l.maxEvals = n
	return l
}

// MaxLineSearch sets the number of steps a single line search may take. A line search that runs
// out ends the optimization at the best point found so far, without an error.
func (l *lbfgs) MaxLineSearch(n int) *lbfgs {
	l.lineSearch = n
	return l
}

// Tolerance sets the change in loss below which the optimizer considers itself converged.
func (l *lbfgs) Tolerance(tol float64) *lbfgs {
	l.tolerance = tol
	return l
}

func (l *lbfgs) TypeString() string {
	return "lbfgs"
}

// evalCache keeps the most recent evaluation so that gonum's separate Func and Grad calls at the
// same location only evaluate the network once.
type evalCache struct {
	p Problem

	x    []float64
	loss float64
	grad []float64
	err  error
}

func (e *evalCache) at(x []float64) bool {
	if e.err != nil {
		return false
	}
	if e.x != nil && floats.Equal(x, e.x) {
		return true
	}

	unflatten(x, e.p.Params)
	loss, grads, err := e.p.eval()
	if err != nil {
		e.err = err
		return false
	}

	e.x = append(e.x[:0], x...)
	e.loss = loss
	e.grad = flatten(e.grad, grads)
	return true
}

// limitedSearch stops a line search after a fixed number of steps.
type limitedSearch struct {
	optimize.Linesearcher
	max, steps int

	// set once a line search ran out of steps
	exhausted bool
}

var errLineSearch = errors.New("Line search took too many steps")

func (s *limitedSearch) Init(value, derivative, step float64) optimize.Operation {
	s.steps = 0
	return s.Linesearcher.Init(value, derivative, step)
}

func (s *limitedSearch) Iterate(value, derivative float64) (optimize.Operation, float64, error) {
	if s.steps++; s.steps > s.max {
		s.exhausted = true
		return optimize.NoOperation, 0, errLineSearch
	}
	return s.Linesearcher.Iterate(value, derivative)
}

// recorder forwards major iterations to a Progress and stops the optimizer when the context is done
// or an evaluation failed.
type recorder struct {
	ctx      context.Context
	cache    *evalCache
	progress Progress
}

func (r *recorder) Init() error {
	return nil
}

func (r *recorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if r.cache.err != nil {
		return r.cache.err
	}

	if op == optimize.MajorIteration && r.progress != nil {
		r.progress(stats.MajorIterations-1, loc.F)
	}

	return r.ctx.Err()
}

func (l *lbfgs) Minimize(ctx context.Context, p Problem, maxIter int, progress Progress) error {
	if err := p.check(); err != nil {
		return err
	}

	if maxIter <= 0 || maxIter > l.maxIters {
		maxIter = l.maxIters
	}
	if maxIter <= 0 {
		return nil
	}

	cache := &evalCache{p: p}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if !cache.at(x) {
				return math.Inf(1)
			}
			return cache.loss
		},
		Grad: func(grad, x []float64) {
			if !cache.at(x) {
				for i := range grad {
					grad[i] = 0
				}
				return
			}
			copy(grad, cache.grad)
		},
	}

	settings := &optimize.Settings{
		MajorIterations: maxIter,
		FuncEvaluations: l.maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   l.tolerance,
			Relative:   l.tolerance,
			Iterations: 1,
		},
		Recorder: &recorder{ctx: ctx, cache: cache, progress: progress},
	}

	search := &limitedSearch{Linesearcher: &optimize.Bisection{}, max: l.lineSearch}
	method := &optimize.LBFGS{Store: l.store}
	if l.lineSearch > 0 {
		method.Linesearcher = search
	}

	x0 := flatten(nil, p.Params)
	result, err := optimize.Minimize(problem, x0, settings, method)

	// Leave the parameters at the best point found, even if the run was cut short
	if result != nil && len(result.X) == len(x0) {
		unflatten(result.X, p.Params)
	}

	if cache.err != nil {
		return errors.Wrap(cache.err, "L-BFGS evaluation failed")
	} else if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	} else if err != nil && !search.exhausted {
		return errors.Wrap(err, "L-BFGS failed")
	}

	return nil
}
