package wavenn

import (
	"github.com/pkg/errors"

	"github.com/sevenysw/waveNN/costfuncs"
	"github.com/sevenysw/waveNN/hyperparams"
	"github.com/sevenysw/waveNN/initializers"
	"github.com/sevenysw/waveNN/operators"
	"github.com/sevenysw/waveNN/optimizers"
	"github.com/sevenysw/waveNN/penalties"
)

// Config holds every setting of an experiment. Start from DefaultConfig and change what's needed.
type Config struct {
	// FieldLayers are the widths of the field network, from its two inputs (x, t) to its single
	// output u.
	FieldLayers []int

	// CoefLayers are the widths of the coefficient network, from its single input x to its single
	// output c.
	CoefLayers []int

	// FieldActivation and CoefActivation name the nonlinearities of the two networks, as
	// registered in package operators.
	FieldActivation string
	CoefActivation  string

	// Initializer names how the weights of both networks are drawn, as registered in package
	// initializers.
	Initializer string

	// TrainingPoints is the number of observations sampled from the grid.
	TrainingPoints int

	// Iterations is the number of optimizer iterations run by Train when TrainArgs doesn't say.
	// With L-BFGS, zero lets the optimizer run until it converges or reaches its own limit. The
	// first-order optimizers need at least one.
	Iterations int

	// LearningRate is the step size of first-order optimizers. It is ignored by L-BFGS.
	LearningRate float64

	// LearningRateSteps optionally lowers (or raises) the learning rate during training: from
	// iteration i on, the rate is LearningRateSteps[i]. Iterations start at 1.
	LearningRateSteps map[int]float64

	// ResidualWeight multiplies the mean squared residual in the loss.
	ResidualWeight float64

	// NoiseLevel is the standard deviation of noise added to the observations, relative to their
	// own standard deviation. Zero means noiseless.
	NoiseLevel float64

	// Optimizer names the optimizer to use, as registered in package optimizers.
	Optimizer string

	// DataCost names the cost function for the data term, as registered in package costfuncs.
	DataCost string

	// Penalty optionally names a regularization term on the network weights, as registered in
	// package penalties. PenaltyStrength is its λ. Biases are never penalized.
	Penalty         string
	PenaltyStrength float64

	// ReportEvery is how often, in iterations, progress is reported. Zero disables reporting.
	ReportEvery int

	// PredictBatch is the largest number of query points evaluated at once by Predict.
	PredictBatch int

	// Seed seeds the random source used for initialization, sampling and noise.
	Seed int64
}

// DefaultConfig returns the settings of the reference experiment: a field network of eight hidden
// layers of 20, a coefficient network of four hidden layers of 10, 1000 observations and 2000 Adam
// iterations at a learning rate of 0.001, with the residual weighted by 100.
func DefaultConfig() Config {
	return Config{
		FieldLayers:     []int{2, 20, 20, 20, 20, 20, 20, 20, 20, 1},
		CoefLayers:      []int{1, 10, 10, 10, 10, 1},
		FieldActivation: operators.Tanh().TypeString(),
		CoefActivation:  operators.ReLU().TypeString(),
		Initializer:     initializers.Xavier().TypeString(),
		TrainingPoints:  1000,
		Iterations:      2000,
		LearningRate:    0.001,
		ResidualWeight:  100,
		NoiseLevel:      0,
		Optimizer:       "adam",
		DataCost:        costfuncs.MSE().TypeString(),
		ReportEvery:     10,
		PredictBatch:    4096,
		Seed:            1234,
	}
}

// Validate checks the Config for errors that would otherwise only show up partway through an
// experiment.
func (c Config) Validate() error {
	if err := checkWidths("FieldLayers", c.FieldLayers, 2); err != nil {
		return err
	} else if err := checkWidths("CoefLayers", c.CoefLayers, 1); err != nil {
		return err
	}

	switch {
	case c.TrainingPoints < 1:
		return errors.Errorf("TrainingPoints must be at least 1, got %d", c.TrainingPoints)
	case c.Iterations < 0:
		return errors.Errorf("Iterations must not be negative, got %d", c.Iterations)
	case c.Iterations == 0 && c.Optimizer != "lbfgs":
		return errors.Errorf("Iterations must be at least 1 with %q", c.Optimizer)
	case !(c.ResidualWeight >= 0):
		return errors.Errorf("ResidualWeight must not be negative, got %v", c.ResidualWeight)
	case !(c.NoiseLevel >= 0):
		return errors.Errorf("NoiseLevel must not be negative, got %v", c.NoiseLevel)
	case c.ReportEvery < 0:
		return errors.Errorf("ReportEvery must not be negative, got %d", c.ReportEvery)
	case c.PredictBatch < 1:
		return errors.Errorf("PredictBatch must be at least 1, got %d", c.PredictBatch)
	}

	if _, err := c.NewOptimizer(); err != nil {
		return err
	}
	if _, _, err := c.activations(); err != nil {
		return err
	}
	if _, err := initializers.New(c.Initializer); err != nil {
		return errors.Wrap(err, "Invalid Initializer")
	}
	if _, err := costfuncs.New(c.DataCost); err != nil {
		return errors.Wrap(err, "Invalid DataCost")
	}
	if _, err := c.newPenalty(); err != nil {
		return errors.Wrap(err, "Invalid Penalty")
	}

	return nil
}

func checkWidths(name string, widths []int, in int) error {
	if len(widths) < 2 {
		return errors.Wrapf(ErrNoLayers, "%s is %v", name, widths)
	}
	for i, w := range widths {
		if w < 1 {
			return errors.Wrapf(ErrBadWidth, "%s[%d] is %d", name, i, w)
		}
	}

	if widths[0] != in {
		return SizeMismatchError{Name: name + " input width", Expected: in, Got: widths[0]}
	} else if last := widths[len(widths)-1]; last != 1 {
		return errors.Wrapf(ErrNotScalar, "%s ends with width %d", name, last)
	}
	return nil
}

// NewOptimizer returns a fresh instance of the configured optimizer, with the configured learning
// rate (and its steps) where it applies.
func (c Config) NewOptimizer() (optimizers.Optimizer, error) {
	switch c.Optimizer {
	case "adam", "sgd":
		lr, err := hyperparams.ParseSteps(c.LearningRate, c.LearningRateSteps)
		if err != nil {
			return nil, errors.Wrap(err, "Invalid LearningRate")
		}

		if c.Optimizer == "adam" {
			return optimizers.Adam().LearningRate(lr), nil
		}
		return optimizers.GradientDescent().LearningRate(lr), nil
	}

	opt, err := optimizers.New(c.Optimizer)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownOptimizer, "%q", c.Optimizer)
	}
	return opt, nil
}

// activations returns the configured nonlinearities of the field and coefficient networks.
func (c Config) activations() (field, coef operators.Activation, err error) {
	if field, err = operators.New(c.FieldActivation); err != nil {
		return nil, nil, errors.Wrap(err, "Invalid FieldActivation")
	}
	if coef, err = operators.New(c.CoefActivation); err != nil {
		return nil, nil, errors.Wrap(err, "Invalid CoefActivation")
	}
	return field, coef, nil
}

// newPenalty returns the configured penalty, or nil if there is none.
func (c Config) newPenalty() (penalties.Penalty, error) {
	if c.Penalty == "" {
		return nil, nil
	}
	return penalties.New(c.Penalty, c.PenaltyStrength)
}
