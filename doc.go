// Package wavenn fits a physics-informed neural network to the one-dimensional wave equation
//
//		c(x)·u_xx - u_tt = 0
//
// given scattered observations of u(x, t). Two networks are trained together: a field network for
// u, and a coefficient network for c, which is never observed directly and is recovered only
// through the residual of the equation.
//
// Building a Model
//
// A Model is built from a Config, the domain bounds, and the training observations:
//
//		cfg := wavenn.DefaultConfig()
//		rng := rand.New(rand.NewSource(cfg.Seed))
//
//		grid, err := dataset.Load("wave.zip", dataset.DefaultField)
//		// ...
//		bounds, err := wavenn.NewBounds(grid.Bounds())
//		train, err := grid.Sample(cfg.TrainingPoints, rng)
//		model, err := wavenn.NewModel(cfg, bounds, train, rng)
//
// Each network rescales its inputs from the bounds onto [-1, 1] before the first layer. The field
// network uses tanh between layers, the coefficient network ReLU. Both end with a linear layer.
//
// Any differentiable Function can stand in for either network with NewModelWith. Functions are
// built from package autodiff, which can differentiate its own gradients; that is how u_xx and
// u_tt are found.
//
// Training
//
// The loss is the data cost (mean squared error by default) plus the mean squared residual times
// Config.ResidualWeight. Training is done with Train, with TrainArgs in place of optional arguments:
//
//		res, err := model.Train(ctx, wavenn.TrainArgs{
//			Update: func(r wavenn.Result) {
//				fmt.Printf("It: %d, Loss: %.3e\n", r.Iteration, r.Loss.Total)
//			},
//		})
//
// The optimizer defaults to Adam, and may be any optimizers.Optimizer, such as L-BFGS.
//
// Predicting
//
// Predict returns u, c, the residual, and the first and second derivatives of u at any set of
// points, through the same evaluation used in training.
//
// Saving and Loading
//
// Parameters can be written to an archive and read back into a Model of the same architecture:
//
//		func (m *Model) Save(path string, overwrite bool) error
//		func (m *Model) Load(path string) error
package wavenn
