package initializers

import (
	"math/rand"

	"github.com/pkg/errors"
)

// Initializer sets the starting values of a weight matrix with fanIn rows and fanOut columns.
// All randomness must come from the provided source, so that two models built from sources with
// the same seed start from identical weights.
type Initializer interface {
	TypeString() string

	// Set fills ws, which has fanIn*fanOut elements in row-major order.
	Set(rng *rand.Rand, fanIn, fanOut int, ws []float64)
}

// Values used by the constructors until they are changed with the builder methods.
const (
	defaultUniformLower float64 = -1
	defaultUniformUpper float64 = 1
	defaultNormalMean   float64 = 0
	defaultNormalSD     float64 = 1
	defaultTruncSDs     float64 = 2
	defaultVarScaling   float64 = 1
)

var registry = map[string]func() Initializer{
	"zeros":            func() Initializer { return Zeros() },
	"uniform":          func() Initializer { return Uniform() },
	"variance-scaling": func() Initializer { return VarianceScaling() },
	"xavier":           func() Initializer { return Xavier() },
	"he":               func() Initializer { return He() },
	"lecun":            func() Initializer { return LeCun() },
}

// New returns a fresh Initializer with default settings, given its name.
func New(name string) (Initializer, error) {
	f, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("Initializer %q is not registered", name)
	}

	return f(), nil
}
