package window

import (
	"fmt"

	"github.com/happyhackingspace/cooc/internal/boundary"
	"github.com/happyhackingspace/cooc/sparse"
)

// DirectGroup counts category c around every position of the group spanning
// [lo, hi) by scanning up to w neighbours in dir. It is the O(len * w)
// reference the shift-and-mask accumulator is checked against.
func DirectGroup(codes []int32, lo, hi, w int, dir sparse.Direction, c int32) []int32 {
	counts := make([]int32, hi-lo)
	for i := lo; i < hi; i++ {
		for d := 1; d <= w; d++ {
			j := i - d
			if dir == sparse.Later {
				j = i + d
			}
			if j < lo || j >= hi {
				break
			}
			if codes[j] == c {
				counts[i-lo]++
			}
		}
	}
	return counts
}

// Direct computes the same matrix as Accumulate by scanning each position's
// window directly.
func Direct(codes []int32, groups *boundary.Groups, k, w int, dir sparse.Direction) (*sparse.Matrix, error) {
	n := len(codes)
	if groups.Len() != n {
		return nil, fmt.Errorf("%w: %d codes, %d group ids", ErrShapeMismatch, n, groups.Len())
	}
	if err := CheckWindow(w, n); err != nil {
		return nil, err
	}
	b := sparse.NewBuilder(n, k, 0)
	for g := range groups.Count() {
		lo, hi := groups.Span(g)
		for i := lo; i < hi; i++ {
			for d := 1; d <= w; d++ {
				j := i - d
				if dir == sparse.Later {
					j = i + d
				}
				if j < lo || j >= hi {
					break
				}
				if codes[j] >= 0 {
					b.Add(i, int(codes[j]), 1)
				}
			}
		}
	}
	return b.Build()
}
