package initializers

import "math/rand"

type uniform struct {
	lower, upper float64
}

// Uniform returns an Initalizer that draws from a uniform random sample within a
// range, which can be set by Range. It defaults to [-1, 1), and never gives exactly zero.
func Uniform() *uniform {
	return &uniform{defaultUniformLower, defaultUniformUpper}
}

// Range sets the Range of a Uniform Initializer, returning the same Initializer
func (u *uniform) Range(lower, upper float64) *uniform {
	u.lower = lower
	u.upper = upper
	return u
}

func (u *uniform) TypeString() string {
	return "uniform"
}

func (u *uniform) Set(r *rand.Rand, fanIn, fanOut int, ws []float64) {
	if u.lower > u.upper {
		u.lower, u.upper = u.upper, u.lower
	}

	for i := 0; i < len(ws); i++ {
		w := r.Float64()*(u.upper-u.lower) + u.lower
		if w == 0 {
			// discard and try again
			i--
			continue
		}
		ws[i] = w
	}
}

type zeros int8

// Zeros returns an Initializer that sets every value to zero. It is what biases start from, and
// gives a network whose output starts at zero everywhere.
func Zeros() zeros {
	return zeros(0)
}

func (z zeros) TypeString() string {
	return "zeros"
}

func (z zeros) Set(r *rand.Rand, fanIn, fanOut int, ws []float64) {
	for i := range ws {
		ws[i] = 0
	}
}
