package initializers

import "math/rand"

// RNG produces single random values from a source.
type RNG interface {
	Gen(*rand.Rand) float64
}

type normal struct {
	µ, σ float64
}

// Normal returns an RNG that gives values within a standard normal distribution. The center
// and standard deviation can be set by Mean and SD, respectively.
func Normal() *normal {
	return &normal{defaultNormalMean, defaultNormalSD}
}

// SD sets the value of the standard deviation of the normal distribution.
func (n *normal) SD(sd float64) *normal {
	n.σ = sd
	return n
}

// Mean sets the center of the normal distribution.
func (n *normal) Mean(mean float64) *normal {
	n.µ = mean
	return n
}

// Gen is the implementation of RNG for Normal. It returns a random number.
func (n *normal) Gen(r *rand.Rand) float64 {
	return r.NormFloat64()*n.σ + n.µ
}

type truncNormal struct {
	*normal
	trunc float64
}

// TruncNormal returns an RNG that gives values within a truncated normal
// distribution. Samples further than 2 standard deviations (unless changed by Trunc)
// from the mean are drawn again. The center and standard deviation are
// set in the same way as Normal, because Normal is embedded in the TruncNormal type.
func TruncNormal() *truncNormal {
	return &truncNormal{Normal(), defaultTruncSDs}
}

// Trunc sets the number of standard deviations to keep on either side. Trunc will
// panic if given sds <= 0.
func (t *truncNormal) Trunc(sds float64) *truncNormal {
	if sds <= 0 {
		panic("given number of standard deviations to truncate after is <= 0")
	}

	t.trunc = sds
	return t
}

// SD sets the standard deviation of the distribution before truncation.
func (t *truncNormal) SD(sd float64) *truncNormal {
	t.normal.SD(sd)
	return t
}

// Gen is the implementation of RNG for TruncNormal. It returns a random number.
func (t *truncNormal) Gen(r *rand.Rand) float64 {
	for {
		v := r.NormFloat64()
		if v < -t.trunc || v > t.trunc {
			continue
		}

		return v*t.σ + t.µ
	}
}
