package window

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/cooc/internal/boundary"
	"github.com/happyhackingspace/cooc/internal/vectorizer"
	"github.com/happyhackingspace/cooc/sparse"
)

var directions = []sparse.Direction{sparse.Earlier, sparse.Later}

func mustGroups(t *testing.T, ids []string) *boundary.Groups {
	t.Helper()
	g, err := boundary.New(ids)
	require.NoError(t, err)
	return g
}

func mustIndicator(t *testing.T, codes []int32, k int) *sparse.Matrix {
	t.Helper()
	m, err := vectorizer.Indicator(codes, k)
	require.NoError(t, err)
	return m
}

// column extracts column c of m as a dense slice.
func column(m *sparse.Matrix, c int) []int32 {
	out := make([]int32, m.Rows())
	for i := range out {
		out[i] = m.At(i, c)
	}
	return out
}

// randomCorpus returns category codes (-1 = none) and contiguous group ids.
func randomCorpus(rng *rand.Rand, n, k int) ([]int32, []string) {
	codes := make([]int32, n)
	ids := make([]string, n)
	group := 0
	for i := range n {
		if i > 0 && rng.IntN(5) == 0 {
			group++
		}
		ids[i] = fmt.Sprintf("doc-%d", group)
		codes[i] = int32(rng.IntN(k+2)) - 2
		if codes[i] < -1 {
			codes[i] = -1
		}
	}
	return codes, ids
}

// Labels a, b, c, a with window 1: the earlier count of "a" is 1 only at
// position 1, whose predecessor is the "a" at position 0.
func TestBoundaryScenario(t *testing.T) {
	codes := []int32{0, 1, 2, 0}
	groups := mustGroups(t, []string{"g", "g", "g", "g"})
	ind := mustIndicator(t, codes, 3)

	earlier, err := Accumulate(ind, groups, 1, sparse.Earlier)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1, 0, 0}, column(earlier, 0))
	assert.Equal(t, []int32{0, 0, 1, 0}, column(earlier, 1))
	assert.Equal(t, []int32{0, 0, 0, 1}, column(earlier, 2))

	later, err := Accumulate(ind, groups, 1, sparse.Later)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 0, 1, 0}, column(later, 0))
	assert.Equal(t, []int32{1, 0, 0, 0}, column(later, 1))
	assert.Equal(t, []int32{0, 1, 0, 0}, column(later, 2))
}

// Two groups of three with a window wider than either group: nothing from
// the first group may reach the second.
func TestMultiGroupIsolation(t *testing.T) {
	codes := []int32{0, 1, 0, 1, 1, 0}
	groups := mustGroups(t, []string{"A", "A", "A", "B", "B", "B"})
	ind := mustIndicator(t, codes, 2)

	earlier, err := Accumulate(ind, groups, 5, sparse.Earlier)
	require.NoError(t, err)
	assert.Equal(t, 0, earlier.RowNnz(3))
	assert.Equal(t, []int32{0, 1, 1, 0, 0, 0}, column(earlier, 0))
	assert.Equal(t, []int32{0, 0, 1, 0, 1, 2}, column(earlier, 1))

	later, err := Accumulate(ind, groups, 5, sparse.Later)
	require.NoError(t, err)
	assert.Equal(t, 0, later.RowNnz(2))
	assert.Equal(t, []int32{1, 1, 0, 1, 1, 0}, column(later, 0))
	assert.Equal(t, []int32{1, 0, 0, 1, 0, 0}, column(later, 1))
}

func TestNoCrossGroupLeakage(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 3))
	for range 30 {
		codes, ids := randomCorpus(rng, 60, 4)
		groups := mustGroups(t, ids)
		ind := mustIndicator(t, codes, 4)
		w := 1 + rng.IntN(8)

		earlier, err := Accumulate(ind, groups, w, sparse.Earlier)
		require.NoError(t, err)
		later, err := Accumulate(ind, groups, w, sparse.Later)
		require.NoError(t, err)
		for g := range groups.Count() {
			lo, hi := groups.Span(g)
			assert.Equal(t, 0, earlier.RowNnz(lo), "group %d first position", g)
			assert.Equal(t, 0, later.RowNnz(hi-1), "group %d last position", g)
		}
	}
}

func TestMatchesDirectScan(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	for trial := range 40 {
		k := 1 + rng.IntN(5)
		codes, ids := randomCorpus(rng, 10+rng.IntN(80), k)
		groups := mustGroups(t, ids)
		ind := mustIndicator(t, codes, k)
		w := 1 + rng.IntN(min(10, len(codes)))

		for _, dir := range directions {
			got, err := Accumulate(ind, groups, w, dir)
			require.NoError(t, err)
			require.NoError(t, got.Validate())

			want, err := Direct(codes, groups, k, w, dir)
			require.NoError(t, err)
			assert.Equal(t, want.Indptr(), got.Indptr(), "trial %d %s", trial, dir)
			assert.Equal(t, want.Indices(), got.Indices(), "trial %d %s", trial, dir)
			assert.Equal(t, want.Data(), got.Data(), "trial %d %s", trial, dir)

			g := rng.IntN(groups.Count())
			c := int32(rng.IntN(k))
			lo, hi := groups.Span(g)
			assert.Equal(t, DirectGroup(codes, lo, hi, w, dir, c), column(got, int(c))[lo:hi])
		}
	}
}

func TestMonotoneInWindow(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	codes, ids := randomCorpus(rng, 120, 3)
	groups := mustGroups(t, ids)
	ind := mustIndicator(t, codes, 3)

	for _, dir := range directions {
		prev, err := Accumulate(ind, groups, 1, dir)
		require.NoError(t, err)
		for w := 2; w <= 12; w++ {
			cur, err := Accumulate(ind, groups, w, dir)
			require.NoError(t, err)
			for i := range cur.Rows() {
				for c := range 3 {
					assert.GreaterOrEqual(t, cur.At(i, c), prev.At(i, c), "row %d col %d w %d %s", i, c, w, dir)
				}
			}
			prev = cur
		}
	}
}

func TestAccumulateErrors(t *testing.T) {
	ind := mustIndicator(t, []int32{0, 1, 0}, 2)

	_, err := Accumulate(ind, mustGroups(t, []string{"a", "a"}), 1, sparse.Earlier)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	groups := mustGroups(t, []string{"a", "a", "a"})
	_, err = Accumulate(ind, groups, 0, sparse.Earlier)
	assert.ErrorIs(t, err, ErrInvalidWindow)
	_, err = Accumulate(ind, groups, 4, sparse.Later)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = Direct([]int32{0}, groups, 2, 1, sparse.Later)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSingletonGroups(t *testing.T) {
	ind := mustIndicator(t, []int32{0, 0, 0}, 1)
	groups := mustGroups(t, []string{"a", "b", "c"})
	for _, dir := range directions {
		m, err := Accumulate(ind, groups, 3, dir)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Nnz())
	}
}
