// Fits the wave equation c(x)·u_xx - u_tt = 0 to a sample of a recorded wavefield, recovering c(x).
//
// requires an archive at dataFile with entries "x", "t" and fieldKey (rows are times, columns are
// positions), in the format written by package dataset. cmd/wavegen writes a synthetic one.
//
// the constants below should be changed to run other experiments

package main

import (
	wavenn "github.com/sevenysw/waveNN"
	"github.com/sevenysw/waveNN/dataset"
	"github.com/sevenysw/waveNN/optimizers"

	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	dataFile   string = "data/wave.zip"
	fieldKey   string = dataset.DefaultField
	resultFile string = "result.zip"
	modelFile  string = "model.zip"

	trainingPoints  int     = 1000
	iterations      int     = 2000
	statusFrequency int     = 10
	learningRate    float64 = 0.001
	residualWeight  float64 = 100
	noise           float64 = 0.0
	seed            int64   = 1234

	// if non-zero, training continues with this many iterations of L-BFGS
	lbfgsIterations int = 0
)

var (
	fieldLayers = []int{2, 20, 20, 20, 20, 20, 20, 20, 20, 1}
	coefLayers  = []int{1, 10, 10, 10, 10, 1}
)

func config() wavenn.Config {
	cfg := wavenn.DefaultConfig()
	cfg.FieldLayers = fieldLayers
	cfg.CoefLayers = coefLayers
	cfg.TrainingPoints = trainingPoints
	cfg.Iterations = iterations
	cfg.LearningRate = learningRate
	cfg.ResidualWeight = residualWeight
	cfg.NoiseLevel = noise
	cfg.ReportEvery = statusFrequency
	cfg.Seed = seed

	if err := cfg.Validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func train(ctx context.Context, model *wavenn.Model, opt optimizers.Optimizer, iters int) {
	fmt.Printf("Training with %s...\n", opt.TypeString())

	res, err := model.Train(ctx, wavenn.TrainArgs{
		Iterations: iters,
		Optimizer:  opt,
		Update: func(r wavenn.Result) {
			fmt.Printf("It: %d, Loss: %.3e, Time: %.2f\n", r.Iteration, r.Loss.Total, r.Elapsed.Seconds())
		},
	})
	if err != nil && ctx.Err() == nil {
		panic(err.Error())
	}

	l := res.Final
	fmt.Printf("Done after %d iterations (%.2fs). Loss: %.3e (data %.3e, residual %.3e), u norm %.3e, prediction norm %.3e\n",
		res.Iterations, res.Elapsed.Seconds(), l.Total, l.Data, l.Residual, l.UNorm, l.UPredNorm)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config()
	rng := rand.New(rand.NewSource(cfg.Seed))

	fmt.Println("Loading data...")
	grid, err := dataset.Load(dataFile, fieldKey)
	if err != nil {
		panic(err.Error())
	}

	bounds, err := wavenn.NewBounds(grid.Bounds())
	if err != nil {
		panic(err.Error())
	}

	sample, err := grid.Sample(cfg.TrainingPoints, rng)
	if err != nil {
		panic(err.Error())
	}
	trainSet := sample.WithNoise(cfg.NoiseLevel, rng)
	fmt.Printf("Done! %d positions, %d times, %d training points\n", len(grid.X), len(grid.T), trainSet.Len())

	fmt.Println("Setting up networks...")
	model, err := wavenn.NewModel(cfg, bounds, trainSet, rng)
	if err != nil {
		panic(err.Error())
	}

	opt, err := cfg.NewOptimizer()
	if err != nil {
		panic(err.Error())
	}
	train(ctx, model, opt, cfg.Iterations)

	if lbfgsIterations > 0 && ctx.Err() == nil {
		train(ctx, model, optimizers.LBFGS(), lbfgsIterations)
	}

	fmt.Println("Predicting...")
	all := grid.Flatten()
	pred, err := model.Predict(all.X, all.T)
	if err != nil {
		panic(err.Error())
	}

	fmt.Printf("c: min %.4f, mean %.4f, max %.4f\n", floats.Min(pred.C), stat.Mean(pred.C, nil), floats.Max(pred.C))
	fmt.Printf("Error u: %e\n", dataset.RelativeL2(all.U, pred.U))

	regridded, err := dataset.Regrid(dataset.Points{X: all.X, T: all.T, U: pred.U}, grid.X, grid.T)
	if err != nil {
		panic(err.Error())
	}

	fmt.Println("Saving...")
	result := dataset.Archive{
		"u_pred":    dataset.Column(pred.U),
		"c_pred":    dataset.Column(pred.C),
		"U_pred":    regridded,
		"X_u_train": trainSet.Coords(),
		"u_train":   dataset.Column(trainSet.U),
		"Exact":     grid.U,
		"f_pred":    dataset.Column(pred.F),
		"ut_star":   dataset.Column(pred.Ut),
		"utt_star":  dataset.Column(pred.Utt),
		"ux_star":   dataset.Column(pred.Ux),
		"uxx_star":  dataset.Column(pred.Uxx),
	}
	if err := result.Write(resultFile); err != nil {
		panic(err.Error())
	}
	if err := model.Save(modelFile, true); err != nil {
		panic(err.Error())
	}
	fmt.Println("Done!")
}
