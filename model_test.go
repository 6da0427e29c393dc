package wavenn

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/autodiff"
	"github.com/sevenysw/waveNN/dataset"
)

// standingWave is the exact solution sin(k·x)·cos(k·√c·t), written with autodiff operations so it
// can stand in for the field network.
type standingWave struct {
	k, c float64
}

func (s standingWave) Forward(in *autodiff.Node) (*autodiff.Node, error) {
	x := autodiff.SliceCols(in, 0, 1)
	t := autodiff.SliceCols(in, 1, 2)
	return autodiff.Mul(autodiff.Sin(autodiff.Scale(x, s.k)), autodiff.Cos(autodiff.Scale(t, s.k*math.Sqrt(s.c)))), nil
}

func (s standingWave) Params() []*autodiff.Node { return nil }

// constant stands in for the coefficient network.
type constant float64

func (c constant) Forward(in *autodiff.Node) (*autodiff.Node, error) {
	r, _ := in.Dims()
	return autodiff.Fill(r, 1, float64(c)), nil
}

func (c constant) Params() []*autodiff.Node { return nil }

func waveGrid(t *testing.T, wave dataset.StandingWave, nx, nt int) *dataset.Grid {
	t.Helper()

	g, err := wave.Grid(0, 1, nx, 0, 1, nt)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.FieldLayers = []int{2, 6, 6, 1}
	cfg.CoefLayers = []int{1, 4, 1}
	cfg.TrainingPoints = 50
	cfg.ReportEvery = 0
	return cfg
}

func smallModel(t *testing.T, cfg Config, seed int64) (*Model, *dataset.Grid) {
	t.Helper()

	g := waveGrid(t, dataset.StandingWave{C: 1, K: math.Pi}, 12, 10)
	rng := rand.New(rand.NewSource(seed))

	b, err := NewBounds(g.Bounds())
	if err != nil {
		t.Fatal(err)
	}
	train, err := g.Sample(cfg.TrainingPoints, rng)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewModel(cfg, b, train, rng)
	if err != nil {
		t.Fatal(err)
	}
	return m, g
}

func TestResidualOfExactSolutionIsZero(t *testing.T) {
	wave := dataset.StandingWave{C: 2.5, K: 3}
	g := waveGrid(t, wave, 15, 12)
	all := g.Flatten()

	m, err := NewModelWith(DefaultConfig(), standingWave{wave.K, wave.C}, constant(wave.C), all)
	if err != nil {
		t.Fatal(err)
	}

	p, err := m.Predict(all.X, all.T)
	if err != nil {
		t.Fatal(err)
	}

	for i := range all.X {
		if math.Abs(p.F[i]) > 1e-12 {
			t.Errorf("Point %d: expected zero residual, got %v", i, p.F[i])
		}
		if p.C[i] != wave.C {
			t.Errorf("Point %d: expected coefficient %v, got %v", i, wave.C, p.C[i])
		}

		u := wave.At(all.X[i], all.T[i])
		if want := -wave.K * wave.K * u; math.Abs(p.Uxx[i]-want) > 1e-12 {
			t.Errorf("Point %d: expected u_xx %v, got %v", i, want, p.Uxx[i])
		}
		if want := -wave.K * wave.K * wave.C * u; math.Abs(p.Utt[i]-want) > 1e-12 {
			t.Errorf("Point %d: expected u_tt %v, got %v", i, want, p.Utt[i])
		}
	}

	// the exact solution with matching observations has no loss at all
	state, err := m.Loss()
	if err != nil {
		t.Fatal(err)
	}
	if state.Total > 1e-20 || state.Total < 0 {
		t.Errorf("Expected zero loss, got %+v", state)
	}
	if math.Abs(state.UNorm-state.UPredNorm) > 1e-15 {
		t.Errorf("Expected equal norms, got %v and %v", state.UNorm, state.UPredNorm)
	}
}

func TestLossIsPositiveOffSolution(t *testing.T) {
	wave := dataset.StandingWave{C: 1, K: 2}
	all := waveGrid(t, wave, 8, 8).Flatten()

	// right field, wrong coefficient: only the residual term is positive
	m, err := NewModelWith(DefaultConfig(), standingWave{wave.K, wave.C}, constant(3), all)
	if err != nil {
		t.Fatal(err)
	}
	state, _ := m.Loss()
	if state.Data > 1e-20 || !(state.Residual > 0) {
		t.Errorf("Expected only a residual loss, got %+v", state)
	}
	if math.Abs(state.Total-state.Data-state.Residual) > 1e-12 {
		t.Errorf("Total %v is not Data + Residual (%v + %v)", state.Total, state.Data, state.Residual)
	}

	// wrong observations: only the data term is positive
	noisy := all.WithNoise(0.1, rand.New(rand.NewSource(1)))
	m, _ = NewModelWith(DefaultConfig(), standingWave{wave.K, wave.C}, constant(wave.C), noisy)
	state, _ = m.Loss()
	if !(state.Data > 0) || state.Residual > 1e-20 {
		t.Errorf("Expected only a data loss, got %+v", state)
	}
}

func TestLossGradientMatchesFiniteDifference(t *testing.T) {
	cfg := smallConfig()
	cfg.FieldLayers = []int{2, 3, 1}
	cfg.CoefLayers = []int{1, 2, 1}
	cfg.ResidualWeight = 1
	cfg.TrainingPoints = 10

	m, _ := smallModel(t, cfg, 4)
	prob := m.problem()

	_, grads, err := prob.Eval()
	if err != nil {
		t.Fatal(err)
	}

	var x0, got []float64
	for i, p := range prob.Params {
		x0 = append(x0, p.RawMatrix().Data...)
		got = append(got, grads[i].RawMatrix().Data...)
	}

	set := func(x []float64) {
		off := 0
		for _, p := range prob.Params {
			data := p.RawMatrix().Data
			copy(data, x[off:off+len(data)])
			off += len(data)
		}
	}

	want := fd.Gradient(nil, func(x []float64) float64 {
		set(x)
		l, _, _ := prob.Eval()
		return l
	}, x0, &fd.Settings{Formula: fd.Central, Step: 1e-6})
	set(x0)

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-4*(1+math.Abs(want[i])) {
			t.Errorf("Parameter %d: expected gradient %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPredictIsRepeatableAndBatchIndependent(t *testing.T) {
	m, g := smallModel(t, smallConfig(), 3)
	all := g.Flatten()

	a, err := m.Predict(all.X, all.T)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := m.Predict(all.X, all.T)

	m.cfg.PredictBatch = 7
	c, _ := m.Predict(all.X, all.T)

	pairs := []struct {
		name    string
		a, b, c []float64
	}{
		{"u", a.U, b.U, c.U},
		{"c", a.C, b.C, c.C},
		{"f", a.F, b.F, c.F},
		{"u_t", a.Ut, b.Ut, c.Ut},
		{"u_tt", a.Utt, b.Utt, c.Utt},
		{"u_x", a.Ux, b.Ux, c.Ux},
		{"u_xx", a.Uxx, b.Uxx, c.Uxx},
	}

	for _, p := range pairs {
		if len(p.a) != len(all.X) {
			t.Fatalf("%s: expected %d values, got %d", p.name, len(all.X), len(p.a))
		}
		if !floats.Equal(p.a, p.b) {
			t.Errorf("%s: repeated prediction differs", p.name)
		}
		if !floats.EqualApprox(p.a, p.c, 1e-12) {
			t.Errorf("%s: batched prediction differs", p.name)
		}
	}

	if _, err := m.Predict(all.X, all.T[1:]); err == nil {
		t.Error("Expected error for mismatched query slices")
	}
}

func TestCoefficientIsNonNegativeWithPositiveOutputLayer(t *testing.T) {
	m, g := smallModel(t, smallConfig(), 8)

	// hidden activations are ReLU outputs, so non-negative output weights and bias keep c >= 0
	last := m.coef.(*CoefNet).Dense().Layers()
	w := last[len(last)-1].W.Value()
	r, c := w.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			w.Set(i, j, math.Abs(w.At(i, j)))
		}
	}

	p, err := m.Predict(g.X, make([]float64, len(g.X)))
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range p.C {
		if v < 0 {
			t.Errorf("Point %d: expected non-negative coefficient, got %v", i, v)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.zip")

	a, g := smallModel(t, smallConfig(), 1)
	if err := a.Save(path, false); err != nil {
		t.Fatal(err)
	}
	if err := a.Save(path, false); err == nil {
		t.Error("Expected error saving over an existing file without overwrite")
	}
	if err := a.Save(path, true); err != nil {
		t.Fatal(err)
	}

	b, _ := smallModel(t, smallConfig(), 2)
	all := g.Flatten()
	pa, _ := a.Predict(all.X, all.T)
	pb, _ := b.Predict(all.X, all.T)
	if floats.Equal(pa.U, pb.U) {
		t.Fatal("Models from different seeds should differ before loading")
	}

	if err := b.Load(path); err != nil {
		t.Fatal(err)
	}
	pb, _ = b.Predict(all.X, all.T)
	if !floats.Equal(pa.U, pb.U) || !floats.Equal(pa.C, pb.C) {
		t.Error("Loaded model predicts differently from the saved one")
	}

	cfg := smallConfig()
	cfg.FieldLayers = []int{2, 5, 1}
	other, _ := smallModel(t, cfg, 1)
	if err := other.Load(path); err == nil {
		t.Error("Expected error loading into a different architecture")
	}
}

func TestNewModelErrors(t *testing.T) {
	b, _ := NewBounds([]float64{0, 0}, []float64{1, 1})
	data := dataset.Points{X: []float64{0.5}, T: []float64{0.5}, U: []float64{1}}
	rng := rand.New(rand.NewSource(1))

	if _, err := NewModel(smallConfig(), nil, data, rng); err == nil {
		t.Error("Expected error for nil bounds")
	}

	xOnly, _ := b.Dims(0)
	if _, err := NewModel(smallConfig(), xOnly, data, rng); err == nil {
		t.Error("Expected error for one-dimensional bounds")
	}

	if _, err := NewModel(smallConfig(), b, dataset.Points{}, rng); err != ErrEmptyData {
		t.Errorf("Expected ErrEmptyData, got %v", err)
	}

	bad := dataset.Points{X: []float64{0.5, 0.6}, T: []float64{0.5}, U: []float64{1, 2}}
	if _, err := NewModel(smallConfig(), b, bad, rng); err == nil {
		t.Error("Expected error for mismatched training set")
	}
}

func TestPenaltyAppliesToWeightsOnly(t *testing.T) {
	cfg := smallConfig()
	cfg.Penalty = "l2-ridge"
	cfg.PenaltyStrength = 1e-3
	m, _ := smallModel(t, cfg, 5)

	// biases don't count, so making them large changes nothing
	for _, net := range []*Dense{m.field.(*FieldNet).Dense(), m.coef.(*CoefNet).Dense()} {
		for _, l := range net.Layers() {
			l.B.Value().Apply(func(_, _ int, _ float64) float64 { return 100 }, l.B.Value())
		}
	}

	if len(m.weights()) != 5 {
		t.Fatalf("Expected 5 weight matrices, got %d", len(m.weights()))
	}

	var want float64
	for _, w := range m.weights() {
		var sq mat.Dense
		sq.MulElem(w.Value(), w.Value())
		want += 1e-3 * mat.Sum(&sq)
	}

	state, err := m.Loss()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(state.Penalty-want) > 1e-12 {
		t.Errorf("Expected penalty %v, got %v", want, state.Penalty)
	}
	if math.Abs(state.Total-state.Data-state.Residual-state.Penalty) > 1e-9*state.Total {
		t.Errorf("Total %v is not the sum of its parts in %+v", state.Total, state)
	}

	cfg.Penalty = "dropout"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unregistered penalty")
	}
}
