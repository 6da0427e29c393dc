package autodiff

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/sevenysw/waveNN/utils"
)

// Matrices with at least this many elements have their elementwise kernels split across CPUs.
const parallelThreshold = 1 << 14

func mapValues(a *mat.Dense, f func(float64) float64) *mat.Dense {
	r, c := a.Dims()
	src := raw(a)
	dst := make([]float64, r*c)

	utils.ForEach(len(dst), parallelThreshold, func(i int) {
		dst[i] = f(src[i])
	})

	return mat.NewDense(r, c, dst)
}

func zipValues(a, b *mat.Dense, f func(float64, float64) float64) *mat.Dense {
	r, c := a.Dims()
	as, bs := raw(a), raw(b)
	dst := make([]float64, r*c)

	utils.ForEach(len(dst), parallelThreshold, func(i int) {
		dst[i] = f(as[i], bs[i])
	})

	return mat.NewDense(r, c, dst)
}

// ****************************************
// Add, Sub, Mul
// ****************************************

type addOp struct{}

func (addOp) typeString() string { return "add" }

func (addOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{g, g}
}

// Add returns a+b, elementwise. a and b must have the same shape.
func Add(a, b *Node) *Node {
	sameShape("Add", a, b)
	return newNode(addOp{}, zipValues(a.value, b.value, func(x, y float64) float64 { return x + y }), a, b)
}

type subOp struct{}

func (subOp) typeString() string { return "sub" }

func (subOp) vjp(n, g *Node, want []bool) []*Node {
	var gb *Node
	if want[1] {
		gb = Neg(g)
	}
	return []*Node{g, gb}
}

// Sub returns a-b, elementwise. a and b must have the same shape.
func Sub(a, b *Node) *Node {
	sameShape("Sub", a, b)
	return newNode(subOp{}, zipValues(a.value, b.value, func(x, y float64) float64 { return x - y }), a, b)
}

type mulOp struct{}

func (mulOp) typeString() string { return "mul" }

func (mulOp) vjp(n, g *Node, want []bool) []*Node {
	gs := make([]*Node, 2)
	if want[0] {
		gs[0] = Mul(g, n.inputs[1])
	}
	if want[1] {
		gs[1] = Mul(g, n.inputs[0])
	}
	return gs
}

// Mul returns the elementwise (Hadamard) product of a and b, which must have the same shape.
func Mul(a, b *Node) *Node {
	sameShape("Mul", a, b)
	return newNode(mulOp{}, zipValues(a.value, b.value, func(x, y float64) float64 { return x * y }), a, b)
}

// Square returns a*a, elementwise.
func Square(a *Node) *Node {
	return Mul(a, a)
}

// ****************************************
// Scale, AddScalar
// ****************************************

type scaleOp float64

func (s scaleOp) typeString() string { return "scale" }

func (s scaleOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{Scale(g, float64(s))}
}

// Scale returns s*a.
func Scale(a *Node, s float64) *Node {
	return newNode(scaleOp(s), mapValues(a.value, func(x float64) float64 { return s * x }), a)
}

// Neg returns -a.
func Neg(a *Node) *Node {
	return Scale(a, -1)
}

type addScalarOp float64

func (s addScalarOp) typeString() string { return "add-scalar" }

func (s addScalarOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{g}
}

// AddScalar returns a+s, elementwise.
func AddScalar(a *Node, s float64) *Node {
	return newNode(addScalarOp(s), mapValues(a.value, func(x float64) float64 { return x + s }), a)
}

// ****************************************
// Nonlinearities
// ****************************************

type tanhOp struct{}

func (tanhOp) typeString() string { return "tanh" }

// d/dx tanh(x) = 1 - tanh(x)^2, written in terms of the output Node so it can be differentiated
// again.
func (tanhOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{Mul(g, AddScalar(Neg(Square(n)), 1))}
}

// Tanh returns tanh(a), elementwise.
func Tanh(a *Node) *Node {
	return newNode(tanhOp{}, mapValues(a.value, math.Tanh), a)
}

type reluOp struct{}

func (reluOp) typeString() string { return "relu" }

// The derivative of relu is a step function, whose own derivative is zero almost everywhere, so
// the mask is a constant.
func (reluOp) vjp(n, g *Node, want []bool) []*Node {
	mask := mapValues(n.inputs[0].value, func(x float64) float64 {
		if x > 0 {
			return 1
		}
		return 0
	})

	return []*Node{Mul(g, newNode(nil, mask))}
}

// ReLU returns max(a, 0), elementwise.
func ReLU(a *Node) *Node {
	return newNode(reluOp{}, mapValues(a.value, func(x float64) float64 { return math.Max(x, 0) }), a)
}

type sinOp struct{}

func (sinOp) typeString() string { return "sin" }

func (sinOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{Mul(g, Cos(n.inputs[0]))}
}

// Sin returns sin(a), elementwise.
func Sin(a *Node) *Node {
	return newNode(sinOp{}, mapValues(a.value, math.Sin), a)
}

type cosOp struct{}

func (cosOp) typeString() string { return "cos" }

func (cosOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{Mul(g, Neg(Sin(n.inputs[0])))}
}

// Cos returns cos(a), elementwise.
func Cos(a *Node) *Node {
	return newNode(cosOp{}, mapValues(a.value, math.Cos), a)
}
