package utils

// MultiDim maps points of an n-dimensional grid to indexes of a flat slice and back.
//
// The first dimension varies fastest. For a field stored with one row per time and one column per
// position, the dimensions are {positions, times}, and the point {j, i} is at index i*positions + j.
type MultiDim struct {
	// the width of each dimension
	Dims []int

	// Sizes[d] is the number of values covered by one step in dimension d+1; the last is the total
	Sizes []int
}

// NewMultiDim returns a MultiDim with the given dimensions, each of which must be positive.
func NewMultiDim(dims ...int) *MultiDim {
	m := &MultiDim{
		Dims:  append([]int(nil), dims...),
		Sizes: make([]int, len(dims)),
	}

	m.Sizes[0] = m.Dims[0]
	for i := 1; i < len(m.Sizes); i++ {
		m.Sizes[i] = m.Sizes[i-1] * m.Dims[i]
	}

	return m
}

// Index returns the flat index of the given point, which must have one coordinate per dimension.
func (m *MultiDim) Index(point ...int) int {
	index := point[0]
	for i := 1; i < len(m.Sizes); i++ {
		index += point[i] * m.Sizes[i-1]
	}

	return index
}

// Point is the inverse of Index.
//
// assumes that the given index will be in bounds
func (m *MultiDim) Point(index int) []int {
	p := make([]int, len(m.Dims))
	for i := len(p) - 1; i >= 1; i-- { // doesn't go to 0
		p[i] = index / m.Sizes[i-1]
		index = index % m.Sizes[i-1]
	}

	p[0] = index
	return p
}

// Size returns the total number of points.
func (m *MultiDim) Size() int {
	return m.Sizes[len(m.Sizes)-1]
}

// Increment moves the point to the next index in place. It returns false once the point has moved
// past the last index, at which point it is no longer valid.
func (m *MultiDim) Increment(point []int) bool {
	for i := range point {
		point[i]++
		if point[i] < m.Dims[i] {
			break
		}

		if i == len(point)-1 {
			return false
		}

		point[i] = 0
	}

	return true
}
