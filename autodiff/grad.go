package autodiff

import (
	"sort"
)

// Grad returns the gradient of the sum of y's elements with respect to each of xs. The gradients
// are Nodes with the same shape as the matching x, built from differentiable operations, so they
// may be passed to Grad again for higher derivatives.
//
// If y does not depend on some x, the gradient for that x is a constant of zeros.
func Grad(y *Node, xs ...*Node) []*Node {
	r, c := y.Dims()
	return VJP(y, Fill(r, c, 1), xs...)
}

// VJP returns the vector-Jacobian product of seed with the Jacobian of y with respect to each of
// xs. seed must have the same shape as y. Grad is VJP with a seed of ones.
func VJP(y, seed *Node, xs ...*Node) []*Node {
	sameShape("VJP seed", y, seed)

	targets := make(map[*Node]bool, len(xs))
	for _, x := range xs {
		targets[x] = true
	}

	// relevant[n] holds whether n lies on a path from one of xs to y
	relevant := make(map[*Node]bool)
	var order []*Node

	var visit func(n *Node) bool
	visit = func(n *Node) bool {
		if r, ok := relevant[n]; ok {
			return r
		}

		r := targets[n]
		for _, in := range n.inputs {
			if visit(in) {
				r = true
			}
		}

		relevant[n] = r
		if r {
			order = append(order, n)
		}
		return r
	}
	visit(y)

	sort.Slice(order, func(i, j int) bool { return order[i].id > order[j].id })

	grads := make(map[*Node]*Node, len(order))
	if relevant[y] {
		grads[y] = seed
	}

	for _, n := range order {
		g := grads[n]
		if g == nil || n.op == nil {
			continue
		}

		want := make([]bool, len(n.inputs))
		for i, in := range n.inputs {
			want[i] = relevant[in]
		}

		contribs := n.op.vjp(n, g, want)
		for i, in := range n.inputs {
			if !want[i] || contribs[i] == nil {
				continue
			}

			if prev := grads[in]; prev != nil {
				grads[in] = Add(prev, contribs[i])
			} else {
				grads[in] = contribs[i]
			}
		}
	}

	out := make([]*Node, len(xs))
	for i, x := range xs {
		if g := grads[x]; g != nil {
			out[i] = g
		} else {
			out[i] = Zeros(x)
		}
	}

	return out
}
