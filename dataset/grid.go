package dataset

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/utils"
)

// DefaultField is the archive entry holding the field values when none is given.
const DefaultField = "seis_u"

// Grid is a field sampled on the full cross product of X and T. U has one row per time and one
// column per position, so U.At(i, j) is the value at (X[j], T[i]).
type Grid struct {
	X, T []float64
	U    *mat.Dense
}

// NewGrid checks that the dimensions of u match xs and ts, and that both coordinate slices are
// strictly increasing.
func NewGrid(xs, ts []float64, u *mat.Dense) (*Grid, error) {
	if len(xs) == 0 || len(ts) == 0 {
		return nil, errors.Errorf("Grid needs at least one position and one time, got %d and %d", len(xs), len(ts))
	} else if u == nil {
		return nil, errors.Errorf("Grid field is nil")
	}

	if r, c := u.Dims(); r != len(ts) || c != len(xs) {
		return nil, errors.Errorf("Field is %dx%d, expected %dx%d (times x positions)", r, c, len(ts), len(xs))
	}

	if !increasing(xs) {
		return nil, errors.Errorf("Positions are not strictly increasing")
	} else if !increasing(ts) {
		return nil, errors.Errorf("Times are not strictly increasing")
	}

	return &Grid{X: xs, T: ts, U: u}, nil
}

func increasing(vs []float64) bool {
	for i := 1; i < len(vs); i++ {
		if !(vs[i] > vs[i-1]) {
			return false
		}
	}
	return true
}

// Load reads a Grid from the archive at path, using the entries "x", "t" and field.
func Load(path, field string) (*Grid, error) {
	a, err := ReadArchive(path)
	if err != nil {
		return nil, err
	}

	xs, err := a.Vector("x")
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't load positions from %s", path)
	}
	ts, err := a.Vector("t")
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't load times from %s", path)
	}
	u, err := a.Matrix(field)
	if err != nil {
		return nil, errors.Wrapf(err, "Couldn't load field from %s", path)
	}

	g, err := NewGrid(xs, ts, u)
	return g, errors.Wrapf(err, "Invalid grid in %s", path)
}

// Save writes the Grid to path in the format Load reads.
func (g *Grid) Save(path, field string) error {
	return Archive{
		"x":   Column(g.X),
		"t":   Column(g.T),
		field: g.U,
	}.Write(path)
}

// index maps (position, time) grid points to their flattened order.
func (g *Grid) index() *utils.MultiDim {
	return utils.NewMultiDim(len(g.X), len(g.T))
}

// Size returns the number of points on the grid.
func (g *Grid) Size() int {
	return len(g.X) * len(g.T)
}

// Flatten returns every point of the grid. Point i*len(X)+j is (X[j], T[i]), matching the row-major
// order of U.
func (g *Grid) Flatten() Points {
	n := g.Size()
	p := Points{
		X: make([]float64, n),
		T: make([]float64, n),
		U: make([]float64, n),
	}

	md := g.index()
	point := make([]int, 2)
	for k := 0; k < n; k++ {
		j, i := point[0], point[1]
		p.X[k], p.T[k], p.U[k] = g.X[j], g.T[i], g.U.At(i, j)
		md.Increment(point)
	}

	return p
}

// Bounds returns the minimum and maximum of the flattened coordinates, in the order (x, t).
func (g *Grid) Bounds() (lower, upper []float64) {
	return []float64{floats.Min(g.X), floats.Min(g.T)}, []float64{floats.Max(g.X), floats.Max(g.T)}
}

// Sample draws n distinct grid points uniformly at random.
func (g *Grid) Sample(n int, rng *rand.Rand) (Points, error) {
	if n <= 0 || n > g.Size() {
		return Points{}, errors.Errorf("Can't sample %d points from a grid of %d", n, g.Size())
	} else if rng == nil {
		return Points{}, errors.Errorf("Random source is nil")
	}

	return g.Flatten().Subset(rng.Perm(g.Size())[:n]), nil
}
