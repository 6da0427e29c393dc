package dataset

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// StandingWave describes the exact solution u(x, t) = sin(K·x)·cos(K·√C·t) of c·u_xx = u_tt with a
// constant coefficient C.
type StandingWave struct {
	C, K float64
}

// At returns u(x, t).
func (s StandingWave) At(x, t float64) float64 {
	return math.Sin(s.K*x) * math.Cos(s.K*math.Sqrt(s.C)*t)
}

// Grid samples the wave on nx evenly spaced positions in [x0, x1] and nt evenly spaced times in
// [t0, t1].
func (s StandingWave) Grid(x0, x1 float64, nx int, t0, t1 float64, nt int) (*Grid, error) {
	if s.C <= 0 {
		return nil, errors.Errorf("Wave speed coefficient must be positive, got %v", s.C)
	} else if nx < 2 || nt < 2 {
		return nil, errors.Errorf("Need at least two positions and two times, got %d and %d", nx, nt)
	}

	xs := floats.Span(make([]float64, nx), x0, x1)
	ts := floats.Span(make([]float64, nt), t0, t1)

	u := mat.NewDense(nt, nx, nil)
	for i, t := range ts {
		for j, x := range xs {
			u.Set(i, j, s.At(x, t))
		}
	}

	return NewGrid(xs, ts, u)
}

// RelativeL2 returns ‖truth - pred‖₂ / ‖truth‖₂.
func RelativeL2(truth, pred []float64) float64 {
	return floats.Distance(truth, pred, 2) / floats.Norm(truth, 2)
}
