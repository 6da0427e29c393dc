package penalties

import (
	"github.com/sevenysw/waveNN/autodiff"
)

// **********************************************
// L1 (Lasso)
// **********************************************

type l1 float64

// L1 returns λ·Σ|w|. λ is a small value close to 0 where λ > 0
func L1(λ float64) l1 {
	return l1(λ)
}

// Lasso is a proxy for L1
func Lasso(λ float64) l1 {
	return L1(λ)
}

func (p l1) TypeString() string {
	return "l1-lasso"
}

func (p l1) Penalize(w *autodiff.Node) *autodiff.Node {
	return autodiff.Scale(autodiff.Sum(abs(w)), float64(p))
}

// **********************************************
// L2 (Ridge)
// **********************************************

type l2 float64

// L2 returns λ·Σw². λ is a small value close to 0 where λ > 0
func L2(λ float64) l2 {
	return l2(λ)
}

// Ridge is a proxy for L2
func Ridge(λ float64) l2 {
	return L2(λ)
}

func (p l2) TypeString() string {
	return "l2-ridge"
}

func (p l2) Penalize(w *autodiff.Node) *autodiff.Node {
	return autodiff.Scale(autodiff.Sum(autodiff.Square(w)), float64(p))
}
