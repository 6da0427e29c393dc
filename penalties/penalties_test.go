package penalties

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/autodiff"
)

func TestPenalties(t *testing.T) {
	w := autodiff.Var("w", mat.NewDense(2, 2, []float64{1, -2, 0.5, 0}))

	tests := []struct {
		p    Penalty
		want float64
	}{
		{L1(0.1), 0.1 * 3.5},
		{L2(0.1), 0.1 * 5.25},
		{ElasticNet(0.25, 0.1), 0.1 * (0.25*3.5 + 0.75*5.25)},
		{ElasticNet(1, 0.1), 0.1 * 3.5},
	}

	for _, test := range tests {
		if got := test.p.Penalize(w).Scalar(); math.Abs(got-test.want) > 1e-15 {
			t.Errorf("%s: expected %v, got %v", test.p.TypeString(), test.want, got)
		}
	}
}

func TestPenaltyGradients(t *testing.T) {
	w := autodiff.Var("w", mat.NewDense(1, 3, []float64{2, -1, 0.5}))

	g := autodiff.Grad(L2(0.5).Penalize(w), w)[0].Value()
	for j, want := range []float64{2, -1, 0.5} {
		if got := g.At(0, j); got != want {
			t.Errorf("L2 gradient %d: expected %v, got %v", j, want, got)
		}
	}

	g = autodiff.Grad(L1(0.5).Penalize(w), w)[0].Value()
	for j, want := range []float64{0.5, -0.5, 0.5} {
		if got := g.At(0, j); got != want {
			t.Errorf("L1 gradient %d: expected %v, got %v", j, want, got)
		}
	}
}

func TestNewAndSum(t *testing.T) {
	p, err := New("l2-ridge", 2)
	if err != nil {
		t.Fatal(err)
	}

	ws := []*autodiff.Node{
		autodiff.Column("a", []float64{1, 1}),
		autodiff.Column("b", []float64{3}),
	}
	if got := Sum(p, ws).Scalar(); got != 22 {
		t.Errorf("Expected 22, got %v", got)
	}
	if Sum(p, nil) != nil {
		t.Error("Expected nil sum over no weights")
	}

	if _, err := New("dropout", 1); err == nil {
		t.Error("Expected error for unregistered penalty")
	}
	if _, err := New("l1-lasso", -1); err == nil {
		t.Error("Expected error for negative strength")
	}
}
