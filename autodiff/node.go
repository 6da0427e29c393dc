// Package autodiff implements eager, define-by-run reverse-mode automatic differentiation over
// gonum matrices.
//
// Every operation computes its value as soon as it is called and records the Nodes it was computed
// from. Grad walks that record backwards, but instead of producing plain numbers it builds new
// Nodes with the same operations, so the result of Grad can itself be passed to Grad again:
//
//		x := autodiff.Var("x", xs)
//		u := autodiff.Tanh(autodiff.Scale(x, 2))
//		ux := autodiff.Grad(u, x)[0]
//		uxx := autodiff.Grad(ux, x)[0]
//
// Gradients follow the convention of summing over every element of the differentiated Node. For
// a batch of independent rows this is exactly the per-row derivative.
//
// All values are stored as contiguous *mat.Dense. Shape mismatches between operands are programming
// errors and cause a panic.
package autodiff

import (
	"fmt"
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

// lastID orders Nodes by creation. Because a Node can only be built from Nodes that already exist,
// decreasing id is always a valid reverse topological order.
var lastID int64

// Node is a single value in a computation, along with the operation and inputs that produced it.
type Node struct {
	id   int64
	name string

	value *mat.Dense

	// nil for leaves (Var and Const)
	op     op
	inputs []*Node
}

// op describes how gradients pass through an operation.
type op interface {
	typeString() string

	// vjp returns, for each input, the gradient contribution given g, the gradient with respect to
	// n's value. Entries are only needed where want[i] is true and may be nil elsewhere.
	vjp(n, g *Node, want []bool) []*Node
}

func newNode(o op, value *mat.Dense, inputs ...*Node) *Node {
	return &Node{
		id:     atomic.AddInt64(&lastID, 1),
		value:  value,
		op:     o,
		inputs: inputs,
	}
}

// Var returns a leaf Node that wraps the given matrix without copying it. Changes made to the
// matrix (for example by an optimizer) are seen by every Node built from the Var afterwards.
//
// The matrix must not be a view into a larger matrix; Var panics if it is.
func Var(name string, value *mat.Dense) *Node {
	if value == nil {
		panic("autodiff: Var value is nil")
	}

	r, c := value.Dims()
	if value.RawMatrix().Stride != c {
		panic(fmt.Sprintf("autodiff: Var %q is a non-contiguous %dx%d view", name, r, c))
	}

	n := newNode(nil, value)
	n.name = name
	return n
}

// Const returns a leaf Node holding a copy of the given matrix.
func Const(value mat.Matrix) *Node {
	return newNode(nil, mat.DenseCopyOf(value))
}

// Column returns a leaf Node holding the values as a len(values)×1 column. The slice is copied.
func Column(name string, values []float64) *Node {
	data := make([]float64, len(values))
	copy(data, values)

	n := newNode(nil, mat.NewDense(len(values), 1, data))
	n.name = name
	return n
}

// Fill returns a constant r×c Node where every element is v.
func Fill(r, c int, v float64) *Node {
	data := make([]float64, r*c)
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}

	return newNode(nil, mat.NewDense(r, c, data))
}

// Zeros returns a constant Node of zeros with the same shape as n.
func Zeros(n *Node) *Node {
	r, c := n.Dims()
	return Fill(r, c, 0)
}

// Dims returns the number of rows and columns of the Node's value.
func (n *Node) Dims() (r, c int) {
	return n.value.Dims()
}

// Value returns the matrix held by the Node. It is NOT a copy and must not be modified, except
// for Var Nodes whose owner deliberately updates them.
func (n *Node) Value() *mat.Dense {
	return n.value
}

// Scalar returns the single value of a 1×1 Node. It panics for any other shape.
func (n *Node) Scalar() float64 {
	if r, c := n.Dims(); r != 1 || c != 1 {
		panic(fmt.Sprintf("autodiff: Scalar called on %dx%d node", r, c))
	}

	return n.value.At(0, 0)
}

// Col returns a copy of the j'th column of the Node's value.
func (n *Node) Col(j int) []float64 {
	return mat.Col(nil, j, n.value)
}

// Name returns the name given to a Var or Column. It is empty for all other Nodes.
func (n *Node) Name() string {
	return n.name
}

// IsLeaf returns whether the Node was created directly from data instead of by an operation.
func (n *Node) IsLeaf() bool {
	return n.op == nil
}

// String gives a short description of the Node without its values.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	r, c := n.Dims()
	if n.name != "" {
		return fmt.Sprintf("%q <%dx%d>", n.name, r, c)
	} else if n.op == nil {
		return fmt.Sprintf("<const %dx%d>", r, c)
	}

	return fmt.Sprintf("<%s %dx%d>", n.op.typeString(), r, c)
}

// raw returns the backing slice of a contiguous matrix.
func raw(m *mat.Dense) []float64 {
	r, c := m.Dims()
	rm := m.RawMatrix()
	if rm.Stride == c {
		return rm.Data[:r*c]
	}

	return mat.DenseCopyOf(m).RawMatrix().Data
}

func sameShape(opName string, a, b *Node) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		panic(fmt.Sprintf("autodiff: %s shape mismatch (%dx%d vs %dx%d)", opName, ar, ac, br, bc))
	}
}
