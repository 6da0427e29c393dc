package dataset

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/utils"
)

// Regrid reconstructs scattered values onto the grid spanned by xs and ts, both strictly
// increasing. Each sample is assigned to its nearest grid node, averaging samples that share a
// node. Nodes without a sample are filled along x within each time row, by a natural cubic spline
// when the row has at least three filled nodes and linearly when it has two. Nodes outside the span
// of a row's samples are left as NaN.
//
// The result has one row per time and one column per position, like Grid.U.
func Regrid(p Points, xs, ts []float64) (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	} else if p.U == nil {
		return nil, errors.Errorf("Can't regrid points without values")
	} else if len(xs) == 0 || len(ts) == 0 {
		return nil, errors.Errorf("Can't regrid onto an empty grid")
	} else if !increasing(xs) || !increasing(ts) {
		return nil, errors.Errorf("Grid coordinates must be strictly increasing")
	}

	md := utils.NewMultiDim(len(xs), len(ts))
	sums := mat.NewDense(len(ts), len(xs), nil)
	counts := make([]int, md.Size())
	for k := range p.X {
		i, j := nearest(ts, p.T[k]), nearest(xs, p.X[k])
		sums.Set(i, j, sums.At(i, j)+p.U[k])
		counts[md.Index(j, i)]++
	}

	out := mat.NewDense(len(ts), len(xs), nil)
	var known, vals []float64
	for i := range ts {
		known, vals = known[:0], vals[:0]
		for j, x := range xs {
			if n := counts[md.Index(j, i)]; n != 0 {
				known = append(known, x)
				vals = append(vals, sums.At(i, j)/float64(n))
			}
		}

		pred, err := fitRow(known, vals)
		if err != nil {
			return nil, errors.Wrapf(err, "Couldn't interpolate row %d", i)
		}

		for j, x := range xs {
			switch {
			case counts[md.Index(j, i)] != 0:
				out.Set(i, j, sums.At(i, j)/float64(counts[md.Index(j, i)]))
			case pred == nil || x < known[0] || x > known[len(known)-1]:
				out.Set(i, j, math.NaN())
			default:
				out.Set(i, j, pred.Predict(x))
			}
		}
	}

	return out, nil
}

// fitRow returns an interpolator through the points, or nil if there are fewer than two.
func fitRow(xs, ys []float64) (interp.Predictor, error) {
	switch {
	case len(xs) < 2:
		return nil, nil
	case len(xs) == 2:
		var pl interp.PiecewiseLinear
		return &pl, pl.Fit(xs, ys)
	default:
		var nc interp.NaturalCubic
		return &nc, nc.Fit(xs, ys)
	}
}

// nearest returns the index of the value in sorted closest to v.
func nearest(sorted []float64, v float64) int {
	i := sort.SearchFloat64s(sorted, v)
	switch {
	case i == 0:
		return 0
	case i == len(sorted):
		return len(sorted) - 1
	case v-sorted[i-1] <= sorted[i]-v:
		return i - 1
	default:
		return i
	}
}
