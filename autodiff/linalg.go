package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ****************************************
// MatMul, T
// ****************************************

type matMulOp struct{}

func (matMulOp) typeString() string { return "matmul" }

func (matMulOp) vjp(n, g *Node, want []bool) []*Node {
	gs := make([]*Node, 2)
	if want[0] {
		gs[0] = MatMul(g, T(n.inputs[1]))
	}
	if want[1] {
		gs[1] = MatMul(T(n.inputs[0]), g)
	}
	return gs
}

// MatMul returns the matrix product a·b.
func MatMul(a, b *Node) *Node {
	_, ac := a.Dims()
	br, _ := b.Dims()
	if ac != br {
		panic(fmt.Sprintf("autodiff: MatMul inner dimensions differ (%d vs %d)", ac, br))
	}

	var out mat.Dense
	out.Mul(a.value, b.value)
	return newNode(matMulOp{}, &out, a, b)
}

type transposeOp struct{}

func (transposeOp) typeString() string { return "transpose" }

func (transposeOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{T(g)}
}

// T returns the transpose of a.
func T(a *Node) *Node {
	return newNode(transposeOp{}, mat.DenseCopyOf(a.value.T()), a)
}

// ****************************************
// Row broadcasting
// ****************************************

func checkRow(opName string, a, row *Node) {
	_, ac := a.Dims()
	rr, rc := row.Dims()
	if rr != 1 || rc != ac {
		panic(fmt.Sprintf("autodiff: %s expects a 1x%d row, got %dx%d", opName, ac, rr, rc))
	}
}

type addRowOp struct{}

func (addRowOp) typeString() string { return "add-row" }

func (addRowOp) vjp(n, g *Node, want []bool) []*Node {
	gs := []*Node{g, nil}
	if want[1] {
		gs[1] = SumRows(g)
	}
	return gs
}

// AddRow adds the 1×c row to every row of the r×c matrix a. It is how biases are applied.
func AddRow(a, row *Node) *Node {
	checkRow("AddRow", a, row)

	r, c := a.Dims()
	src, rs := raw(a.value), raw(row.value)
	dst := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst[i*c+j] = src[i*c+j] + rs[j]
		}
	}

	return newNode(addRowOp{}, mat.NewDense(r, c, dst), a, row)
}

type mulRowOp struct{}

func (mulRowOp) typeString() string { return "mul-row" }

func (mulRowOp) vjp(n, g *Node, want []bool) []*Node {
	gs := make([]*Node, 2)
	if want[0] {
		gs[0] = MulRow(g, n.inputs[1])
	}
	if want[1] {
		gs[1] = SumRows(Mul(g, n.inputs[0]))
	}
	return gs
}

// MulRow multiplies every row of the r×c matrix a elementwise by the 1×c row.
func MulRow(a, row *Node) *Node {
	checkRow("MulRow", a, row)

	r, c := a.Dims()
	src, rs := raw(a.value), raw(row.value)
	dst := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst[i*c+j] = src[i*c+j] * rs[j]
		}
	}

	return newNode(mulRowOp{}, mat.NewDense(r, c, dst), a, row)
}

type sumRowsOp struct{}

func (sumRowsOp) typeString() string { return "sum-rows" }

func (sumRowsOp) vjp(n, g *Node, want []bool) []*Node {
	r, _ := n.inputs[0].Dims()
	return []*Node{BroadcastRows(g, r)}
}

// SumRows adds together the rows of a, producing a 1×c row.
func SumRows(a *Node) *Node {
	r, c := a.Dims()
	src := raw(a.value)
	dst := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst[j] += src[i*c+j]
		}
	}

	return newNode(sumRowsOp{}, mat.NewDense(1, c, dst), a)
}

type broadcastRowsOp int

func (broadcastRowsOp) typeString() string { return "broadcast-rows" }

func (broadcastRowsOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{SumRows(g)}
}

// BroadcastRows repeats the 1×c row r times.
func BroadcastRows(row *Node, r int) *Node {
	rr, c := row.Dims()
	if rr != 1 {
		panic(fmt.Sprintf("autodiff: BroadcastRows expects a row, got %dx%d", rr, c))
	}

	rs := raw(row.value)
	dst := make([]float64, r*c)
	for i := 0; i < r; i++ {
		copy(dst[i*c:(i+1)*c], rs)
	}

	return newNode(broadcastRowsOp(r), mat.NewDense(r, c, dst), row)
}

// ****************************************
// Reductions
// ****************************************

type sumOp struct{}

func (sumOp) typeString() string { return "sum" }

func (sumOp) vjp(n, g *Node, want []bool) []*Node {
	r, c := n.inputs[0].Dims()
	return []*Node{Broadcast(g, r, c)}
}

// Sum returns the sum of every element of a as a 1×1 Node.
func Sum(a *Node) *Node {
	return newNode(sumOp{}, mat.NewDense(1, 1, []float64{mat.Sum(a.value)}), a)
}

type broadcastOp struct{}

func (broadcastOp) typeString() string { return "broadcast" }

func (broadcastOp) vjp(n, g *Node, want []bool) []*Node {
	return []*Node{Sum(g)}
}

// Broadcast expands a 1×1 Node to r×c.
func Broadcast(a *Node, r, c int) *Node {
	v := a.Scalar()
	dst := make([]float64, r*c)
	for i := range dst {
		dst[i] = v
	}

	return newNode(broadcastOp{}, mat.NewDense(r, c, dst), a)
}

// Mean returns the mean of every element of a as a 1×1 Node.
func Mean(a *Node) *Node {
	r, c := a.Dims()
	return Scale(Sum(a), 1/float64(r*c))
}

// ****************************************
// Columns
// ****************************************

type concatOp struct{}

func (concatOp) typeString() string { return "concat" }

func (concatOp) vjp(n, g *Node, want []bool) []*Node {
	gs := make([]*Node, len(n.inputs))
	off := 0
	for i, in := range n.inputs {
		_, c := in.Dims()
		if want[i] {
			gs[i] = SliceCols(g, off, off+c)
		}
		off += c
	}
	return gs
}

// Concat joins the columns of the given Nodes, which must all have the same number of rows.
func Concat(ns ...*Node) *Node {
	if len(ns) == 0 {
		panic("autodiff: Concat of nothing")
	}

	r, _ := ns[0].Dims()
	total := 0
	for _, n := range ns {
		nr, nc := n.Dims()
		if nr != r {
			panic(fmt.Sprintf("autodiff: Concat row mismatch (%d vs %d)", r, nr))
		}
		total += nc
	}

	dst := make([]float64, r*total)
	off := 0
	for _, n := range ns {
		_, c := n.Dims()
		src := raw(n.value)
		for i := 0; i < r; i++ {
			copy(dst[i*total+off:i*total+off+c], src[i*c:(i+1)*c])
		}
		off += c
	}

	return newNode(concatOp{}, mat.NewDense(r, total, dst), ns...)
}

type sliceColsOp struct{ from, to int }

func (sliceColsOp) typeString() string { return "slice-cols" }

func (s sliceColsOp) vjp(n, g *Node, want []bool) []*Node {
	_, c := n.inputs[0].Dims()
	return []*Node{PadCols(g, s.from, c)}
}

// SliceCols returns a copy of the columns [from, to) of a.
func SliceCols(a *Node, from, to int) *Node {
	r, c := a.Dims()
	if from < 0 || to > c || from >= to {
		panic(fmt.Sprintf("autodiff: SliceCols range [%d, %d) invalid for %d columns", from, to, c))
	}

	return newNode(sliceColsOp{from, to}, mat.DenseCopyOf(a.value.Slice(0, r, from, to)), a)
}

type padColsOp struct{ offset int }

func (padColsOp) typeString() string { return "pad-cols" }

func (p padColsOp) vjp(n, g *Node, want []bool) []*Node {
	_, c := n.inputs[0].Dims()
	return []*Node{SliceCols(g, p.offset, p.offset+c)}
}

// PadCols places a inside a wider matrix of zeros with total columns, starting at column offset.
func PadCols(a *Node, offset, total int) *Node {
	r, c := a.Dims()
	if offset < 0 || offset+c > total {
		panic(fmt.Sprintf("autodiff: PadCols cannot place %d columns at %d of %d", c, offset, total))
	}

	out := mat.NewDense(r, total, nil)
	out.Slice(0, r, offset, offset+c).(*mat.Dense).Copy(a.value)
	return newNode(padColsOp{offset}, out, a)
}
