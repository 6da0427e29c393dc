package wavenn

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/sevenysw/waveNN/autodiff"
	"github.com/sevenysw/waveNN/initializers"
	"github.com/sevenysw/waveNN/operators"
)

func TestDenseShapesChain(t *testing.T) {
	widths := []int{2, 7, 5, 5, 1}
	d, err := NewDense("net", widths, operators.Tanh(), initializers.Xavier(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}

	layers := d.Layers()
	if len(layers) != len(widths)-1 {
		t.Fatalf("Expected %d layers, got %d", len(widths)-1, len(layers))
	}

	for l, layer := range layers {
		if r, c := layer.W.Dims(); r != widths[l] || c != widths[l+1] {
			t.Errorf("Layer %d: expected W %dx%d, got %dx%d", l, widths[l], widths[l+1], r, c)
		}
		if r, c := layer.B.Dims(); r != 1 || c != widths[l+1] {
			t.Errorf("Layer %d: expected b 1x%d, got %dx%d", l, widths[l+1], r, c)
		}
		if mat.Norm(layer.B.Value(), 1) != 0 {
			t.Errorf("Layer %d: bias is not zero", l)
		}
	}

	out, err := d.Forward(autodiff.Const(mat.NewDense(3, 2, []float64{0, 0, 1, -1, 0.5, 0.2})))
	if err != nil {
		t.Fatal(err)
	}
	if r, c := out.Dims(); r != 3 || c != 1 {
		t.Errorf("Expected 3x1 output, got %dx%d", r, c)
	}

	if len(d.Params()) != 2*len(layers) {
		t.Errorf("Expected %d parameters, got %d", 2*len(layers), len(d.Params()))
	}
}

func TestDenseWeightStatistics(t *testing.T) {
	d, err := NewDense("net", []int{300, 400}, operators.Tanh(), initializers.Xavier(), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}

	ws := d.Layers()[0].W.Value().RawMatrix().Data
	sd := math.Sqrt(2.0 / 700)

	// weights are drawn from a normal truncated at two standard deviations
	if got, want := stat.StdDev(ws, nil), 0.8796*sd; math.Abs(got-want) > 0.03*want {
		t.Errorf("Expected standard deviation near %v, got %v", want, got)
	}
	for _, w := range ws {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			t.Fatalf("Non-finite weight %v", w)
		}
	}
}

func TestDenseFinalLayerIsLinear(t *testing.T) {
	// with a single layer, the output is x·W + b no matter the activation
	d, err := NewDense("net", []int{1, 1}, operators.ReLU(), initializers.Uniform().Range(-1, -0.5), rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}

	w := d.Layers()[0].W.Value().At(0, 0)
	out, _ := d.Forward(autodiff.Column("x", []float64{3}))
	if got := out.Scalar(); got != 3*w || got >= 0 {
		t.Errorf("Expected negative linear output %v, got %v", 3*w, got)
	}
}

func TestDenseBadArgs(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	if _, err := NewDense("net", []int{2}, operators.Tanh(), initializers.Xavier(), rng); err == nil {
		t.Error("Expected error for a single width")
	}
	if _, err := NewDense("net", []int{2, 0, 1}, operators.Tanh(), initializers.Xavier(), rng); err == nil {
		t.Error("Expected error for a zero width")
	}
	if _, err := NewDense("net", []int{2, 1}, nil, initializers.Xavier(), rng); err == nil {
		t.Error("Expected error for nil activation")
	}

	d, _ := NewDense("net", []int{2, 1}, operators.Tanh(), initializers.Xavier(), rng)
	if _, err := d.Forward(autodiff.Column("x", []float64{1})); err == nil {
		t.Error("Expected error for wrong input width")
	}
}

func TestFieldNetIsDeterministic(t *testing.T) {
	b, _ := NewBounds([]float64{0, 0}, []float64{1, 2})
	f, err := NewFieldNet([]int{2, 8, 8, 1}, b, nil, nil, rand.New(rand.NewSource(9)))
	if err != nil {
		t.Fatal(err)
	}

	in := autodiff.Const(mat.NewDense(3, 2, []float64{0.1, 0.2, 0.5, 1.5, 0.9, 0.0}))
	a, _ := f.Forward(in)
	c, _ := f.Forward(in)
	if !mat.Equal(a.Value(), c.Value()) {
		t.Error("Two forward passes gave different outputs")
	}

	// same seed, same network
	g, _ := NewFieldNet([]int{2, 8, 8, 1}, b, nil, nil, rand.New(rand.NewSource(9)))
	d, _ := g.Forward(in)
	if !mat.Equal(a.Value(), d.Value()) {
		t.Error("Networks built from the same seed differ")
	}

	if _, err := NewFieldNet([]int{2, 8, 2}, b, nil, nil, rand.New(rand.NewSource(9))); err == nil {
		t.Error("Expected error for a field network with two outputs")
	}
	if _, err := NewCoefNet([]int{1, 4, 1}, b, nil, nil, rand.New(rand.NewSource(9))); err == nil {
		t.Error("Expected error for a coefficient network with two-dimensional bounds")
	}
}
