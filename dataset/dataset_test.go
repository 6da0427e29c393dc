package dataset

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func smallGrid(t *testing.T) *Grid {
	t.Helper()

	// u = 10*t + x
	u := mat.NewDense(2, 3, []float64{
		0, 1, 2,
		10, 11, 12,
	})
	g, err := NewGrid([]float64{0, 1, 2}, []float64{0, 1}, u)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewGridRejectsBadShapes(t *testing.T) {
	u := mat.NewDense(2, 3, nil)

	tests := []struct {
		name   string
		xs, ts []float64
	}{
		{"transposed", []float64{0, 1}, []float64{0, 1, 2}},
		{"unsorted x", []float64{0, 2, 1}, []float64{0, 1}},
		{"repeated t", []float64{0, 1, 2}, []float64{1, 1}},
		{"empty", nil, []float64{0, 1}},
	}

	for _, test := range tests {
		if _, err := NewGrid(test.xs, test.ts, u); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestFlattenOrder(t *testing.T) {
	g := smallGrid(t)
	p := g.Flatten()

	if p.Len() != 6 {
		t.Fatalf("Expected 6 points, got %d", p.Len())
	}

	for k := 0; k < p.Len(); k++ {
		i, j := k/3, k%3
		if p.X[k] != g.X[j] || p.T[k] != g.T[i] {
			t.Errorf("Point %d: expected (%v, %v), got (%v, %v)", k, g.X[j], g.T[i], p.X[k], p.T[k])
		}
		if want := 10*p.T[k] + p.X[k]; p.U[k] != want {
			t.Errorf("Point %d: expected value %v, got %v", k, want, p.U[k])
		}
	}
}

func TestBounds(t *testing.T) {
	lower, upper := smallGrid(t).Bounds()
	if lower[0] != 0 || lower[1] != 0 || upper[0] != 2 || upper[1] != 1 {
		t.Errorf("Expected [0 0] to [2 1], got %v to %v", lower, upper)
	}
}

func TestSampleIsDistinctAndSeeded(t *testing.T) {
	g, err := StandingWave{C: 1, K: math.Pi}.Grid(0, 1, 20, 0, 1, 15)
	if err != nil {
		t.Fatal(err)
	}

	a, err := g.Sample(100, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := g.Sample(100, rand.New(rand.NewSource(7)))

	seen := make(map[[2]float64]bool)
	for i := range a.X {
		key := [2]float64{a.X[i], a.T[i]}
		if seen[key] {
			t.Fatalf("Point %v sampled twice", key)
		}
		seen[key] = true

		if a.X[i] != b.X[i] || a.T[i] != b.T[i] || a.U[i] != b.U[i] {
			t.Fatalf("Same seed gave different samples at %d", i)
		}
	}

	if _, err := g.Sample(g.Size()+1, rand.New(rand.NewSource(1))); err == nil {
		t.Error("Expected error sampling more points than the grid has")
	}
}

func TestWithNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	us := make([]float64, 20000)
	for i := range us {
		us[i] = rng.NormFloat64() * 2
	}
	p := Points{X: make([]float64, len(us)), T: make([]float64, len(us)), U: us}

	same := p.WithNoise(0, rng)
	for i := range us {
		if same.U[i] != us[i] {
			t.Fatal("Zero noise changed the values")
		}
	}

	noisy := p.WithNoise(0.1, rng)
	diff := make([]float64, len(us))
	for i := range us {
		diff[i] = noisy.U[i] - us[i]
	}

	want := 0.1 * math.Sqrt(stat.PopVariance(us, nil))
	if got := stat.StdDev(diff, nil); math.Abs(got-want) > 0.05*want {
		t.Errorf("Expected noise standard deviation near %v, got %v", want, got)
	}
	if p.U[0] != us[0] {
		t.Error("WithNoise modified its receiver")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.zip")

	g := smallGrid(t)
	if err := g.Save(path, DefaultField); err != nil {
		t.Fatal(err)
	}

	back, err := Load(path, DefaultField)
	if err != nil {
		t.Fatal(err)
	}

	if !mat.Equal(back.U, g.U) {
		t.Errorf("Field changed: expected %v, got %v", mat.Formatted(g.U), mat.Formatted(back.U))
	}
	if len(back.X) != 3 || back.X[2] != 2 || len(back.T) != 2 || back.T[1] != 1 {
		t.Errorf("Coordinates changed: x=%v t=%v", back.X, back.T)
	}

	if _, err := Load(path, "missing"); err == nil {
		t.Error("Expected error for missing field")
	}
	if _, err := ReadArchive(filepath.Join(t.TempDir(), "nope.zip")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestRegridExactOnFullGrid(t *testing.T) {
	g := smallGrid(t)

	u, err := Regrid(g.Flatten(), g.X, g.T)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.Equal(u, g.U) {
		t.Errorf("Expected %v, got %v", mat.Formatted(g.U), mat.Formatted(u))
	}
}

func TestRegridFillsGaps(t *testing.T) {
	wave := StandingWave{C: 1, K: 1}
	g, err := wave.Grid(0, 3, 61, 0, 1, 3)
	if err != nil {
		t.Fatal(err)
	}

	// keep every other node, except the last column, so samples end at x[58]
	all := g.Flatten()
	var keep []int
	for k := range all.X {
		if j := k % len(g.X); j%2 == 0 && j != len(g.X)-1 {
			keep = append(keep, k)
		}
	}

	u, err := Regrid(all.Subset(keep), g.X, g.T)
	if err != nil {
		t.Fatal(err)
	}

	for i, tm := range g.T {
		for j, x := range g.X {
			got := u.At(i, j)
			if j > 58 {
				if !math.IsNaN(got) {
					t.Errorf("(%d, %d): expected NaN outside samples, got %v", i, j, got)
				}
				continue
			}
			if want := wave.At(x, tm); math.Abs(got-want) > 5e-3 {
				t.Errorf("(%d, %d): expected %v, got %v", i, j, want, got)
			}
		}
	}
}

func TestStandingWaveAndError(t *testing.T) {
	if _, err := (StandingWave{C: -1, K: 1}).Grid(0, 1, 3, 0, 1, 3); err == nil {
		t.Error("Expected error for negative coefficient")
	}

	w := StandingWave{C: 4, K: math.Pi}
	if got := w.At(0.5, 0); math.Abs(got-1) > 1e-15 {
		t.Errorf("Expected 1, got %v", got)
	}
	// cos(π·2·0.25) = 0
	if got := w.At(0.5, 0.25); math.Abs(got) > 1e-15 {
		t.Errorf("Expected 0, got %v", got)
	}

	if got := RelativeL2([]float64{3, 4}, []float64{3, 4}); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if got := RelativeL2([]float64{3, 4}, []float64{0, 0}); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
}
