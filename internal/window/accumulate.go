// Package window computes windowed, group-aware category counts by repeated
// shift-and-mask accumulation over a sparse indicator matrix.
package window

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/happyhackingspace/cooc/internal/boundary"
	"github.com/happyhackingspace/cooc/sparse"
)

var (
	// ErrShapeMismatch reports inputs whose lengths disagree.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidWindow reports a window size <= 0 or larger than the sequence.
	ErrInvalidWindow = errors.New("invalid window")
)

// CheckWindow validates a window size against a sequence of n tokens.
func CheckWindow(w, n int) error {
	if w <= 0 {
		return fmt.Errorf("%w: size %d must be positive", ErrInvalidWindow, w)
	}
	if w > n {
		return fmt.Errorf("%w: size %d exceeds sequence length %d", ErrInvalidWindow, w, n)
	}
	return nil
}

// Accumulate returns the N x K matrix whose entry (i, c) counts the positions
// within w steps of i in dir that share i's group and carry category c.
//
// For d = 1..w the working view is shifted one more row in dir, so at step d
// row i shows the indicator of position i-d (Earlier) or i+d (Later). Rows
// whose neighbour at distance d lies in another group are masked out and the
// rest are added to the accumulator.
func Accumulate(indicator *sparse.Matrix, groups *boundary.Groups, w int, dir sparse.Direction) (*sparse.Matrix, error) {
	n, k := indicator.Shape()
	if groups.Len() != n {
		return nil, fmt.Errorf("%w: %d indicator rows, %d group ids", ErrShapeMismatch, n, groups.Len())
	}
	if err := CheckWindow(w, n); err != nil {
		return nil, err
	}

	// No neighbour is further than MaxRun-1 inside one group.
	steps := min(w, groups.MaxRun()-1)
	acc := sparse.NewBuilder(n, k, indicator.Nnz())
	mask := make([]bool, n)
	cur := indicator.View()
	for d := 1; d <= steps; d++ {
		next, err := cur.Shift(dir)
		if err != nil {
			return nil, fmt.Errorf("shift %s at distance %d: %w", dir, d, err)
		}
		cur = next
		if cur.Nnz() == 0 {
			slog.Debug("Window exhausted", "direction", dir, "distance", d)
			break
		}
		mask = groups.SameGroupAt(mask, d, dir)
		added, err := cur.AddMaskedTo(acc, mask)
		if err != nil {
			return nil, fmt.Errorf("mask %s at distance %d: %w", dir, d, err)
		}
		slog.Debug("Window step", "direction", dir, "distance", d, "visible", cur.Nnz(), "added", added)
	}

	m, err := acc.Build()
	if err != nil {
		return nil, fmt.Errorf("accumulate %s: %w", dir, err)
	}
	return m, nil
}
