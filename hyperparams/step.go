package hyperparams

import "sort"

// change is a value that takes effect from an iteration on.
type change struct {
	from  int
	value float64
}

type schedule struct {
	// sorted by from, and changes[0].from is always 0
	changes []change
}

// Step returns a HyperParameter that holds base until the first iteration given to At, and from
// then on holds the value of the latest change that has taken effect.
func Step(base float64) *schedule {
	return &schedule{[]change{{0, base}}}
}

// At makes value take effect from iteration iter on. Changes can be given in any order. A second
// change at the same iteration replaces the first, and iter 0 (or below) replaces the base.
func (s *schedule) At(iter int, value float64) *schedule {
	if iter < 0 {
		iter = 0
	}

	i := sort.Search(len(s.changes), func(i int) bool { return s.changes[i].from >= iter })
	if i < len(s.changes) && s.changes[i].from == iter {
		s.changes[i].value = value
		return s
	}

	s.changes = append(s.changes, change{})
	copy(s.changes[i+1:], s.changes[i:])
	s.changes[i] = change{iter, value}
	return s
}

func (s *schedule) TypeString() string {
	return "step"
}

func (s *schedule) Value(iter int) float64 {
	// first change that hasn't happened yet
	i := sort.Search(len(s.changes), func(i int) bool { return s.changes[i].from > iter })
	if i == 0 {
		return s.changes[0].value
	}
	return s.changes[i-1].value
}
