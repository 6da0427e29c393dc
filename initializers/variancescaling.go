package initializers

import (
	"math"
	"math/rand"
)

type varianceScaling struct {
	// either: "in", "out", "avg"
	mode   string
	factor float64
}

const defaultVarianceMode string = "avg"

// VarianceScaling returns the variance scaling initializer, which has 3 modes and a user-defined
// scaling factor. The three modes can be set by In, Out, and Avg. It defaults to Avg.
//
// Weights are drawn from a normal distribution truncated at two standard deviations, where the
// standard deviation before truncation is sqrt(factor / scale) and scale is the fan-in, the
// fan-out, or their average.
func VarianceScaling() *varianceScaling {
	return &varianceScaling{defaultVarianceMode, defaultVarScaling}
}

// Factor sets the scaling factor to be used for the Initializer. It defaults to 1.
func (v *varianceScaling) Factor(f float64) *varianceScaling {
	v.factor = f
	return v
}

// In sets the scaling to be based on the number of input values to the layer.
func (v *varianceScaling) In() *varianceScaling {
	v.mode = "in"
	return v
}

// Out sets the scaling to be based on the number of output values of the layer.
func (v *varianceScaling) Out() *varianceScaling {
	v.mode = "out"
	return v
}

// Avg sets the scaling to be based on the average of the numbers of input and output values of
// the layer.
func (v *varianceScaling) Avg() *varianceScaling {
	v.mode = "avg"
	return v
}

func (v *varianceScaling) TypeString() string {
	return "variance-scaling"
}

// SD returns the standard deviation (before truncation) used for a layer of the given size.
func (v *varianceScaling) SD(fanIn, fanOut int) float64 {
	var scale float64
	if v.mode == "in" {
		scale = float64(fanIn)
	} else if v.mode == "out" {
		scale = float64(fanOut)
	} else { // must be "avg"
		scale = float64(fanIn+fanOut) / 2
	}

	return math.Sqrt(v.factor / scale)
}

// Set is the implementation of Initializer
func (v *varianceScaling) Set(r *rand.Rand, fanIn, fanOut int, ws []float64) {
	gen := TruncNormal().SD(v.SD(fanIn, fanOut))

	for i := 0; i < len(ws); i++ {
		ws[i] = gen.Gen(r)
	}
}
