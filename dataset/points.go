package dataset

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Points is a set of samples (X[i], T[i]) with field values U[i]. U may be nil for query points.
type Points struct {
	X, T, U []float64
}

// Len returns the number of points.
func (p Points) Len() int {
	return len(p.X)
}

// Validate checks that the coordinates line up and, if there are observations, that they do too.
func (p Points) Validate() error {
	if len(p.T) != len(p.X) {
		return errors.Errorf("Got %d times for %d positions", len(p.T), len(p.X))
	} else if p.U != nil && len(p.U) != len(p.X) {
		return errors.Errorf("Got %d values for %d positions", len(p.U), len(p.X))
	}
	return nil
}

// Subset returns the points at the given indexes, in that order.
func (p Points) Subset(idx []int) Points {
	s := Points{
		X: make([]float64, len(idx)),
		T: make([]float64, len(idx)),
	}
	if p.U != nil {
		s.U = make([]float64, len(idx))
	}

	for i, k := range idx {
		s.X[i], s.T[i] = p.X[k], p.T[k]
		if p.U != nil {
			s.U[i] = p.U[k]
		}
	}
	return s
}

// WithNoise returns a copy of p with Gaussian noise added to U. The noise has standard deviation
// level times the standard deviation of U. A level of zero returns an unchanged copy.
func (p Points) WithNoise(level float64, rng *rand.Rand) Points {
	s := Points{
		X: append([]float64(nil), p.X...),
		T: append([]float64(nil), p.T...),
		U: append([]float64(nil), p.U...),
	}
	if level == 0 || len(s.U) == 0 {
		return s
	}

	sd := level * math.Sqrt(stat.PopVariance(p.U, nil))
	for i := range s.U {
		s.U[i] += sd * rng.NormFloat64()
	}
	return s
}

// Coords returns the coordinates as an n×2 matrix with columns x and t.
func (p Points) Coords() *mat.Dense {
	m := mat.NewDense(p.Len(), 2, nil)
	for i := range p.X {
		m.Set(i, 0, p.X[i])
		m.Set(i, 1, p.T[i])
	}
	return m
}
