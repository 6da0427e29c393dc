package penalties

import (
	"github.com/sevenysw/waveNN/autodiff"
)

type elasticNet struct {
	α float64
	λ float64
}

// ElasticNet returns λ·(α·Σ|w| + (1-α)·Σw²).
//
// λ is a small value close to 0 where λ > 0,
// α is a value that controls the ratio between L1 and L2
// Regularization, where 0 ≤ α ≤ 1. α = 1 is functionally identical to L1 and α = 0 is equivalent to
// L2.
func ElasticNet(α, λ float64) *elasticNet {
	return &elasticNet{α, λ}
}

func (p *elasticNet) TypeString() string {
	return "elastic-net"
}

func (p *elasticNet) Penalize(w *autodiff.Node) *autodiff.Node {
	lasso := autodiff.Scale(autodiff.Sum(abs(w)), p.α)
	ridge := autodiff.Scale(autodiff.Sum(autodiff.Square(w)), 1-p.α)
	return autodiff.Scale(autodiff.Add(lasso, ridge), p.λ)
}
