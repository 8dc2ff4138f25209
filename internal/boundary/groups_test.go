package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happyhackingspace/cooc/sparse"
)

func TestNewInternsRuns(t *testing.T) {
	g, err := New([]string{"acme", "acme", "globex", "initech", "initech", "initech"})
	require.NoError(t, err)

	assert.Equal(t, 6, g.Len())
	assert.Equal(t, 3, g.Count())
	assert.Equal(t, []int32{0, 0, 1, 2, 2, 2}, g.Codes())
	assert.Equal(t, "globex", g.Name(1))
	lo, hi := g.Span(2)
	assert.Equal(t, 3, lo)
	assert.Equal(t, 6, hi)
	assert.Equal(t, 1, g.Lookup("globex"))
	assert.Equal(t, -1, g.Lookup("hooli"))
}

func TestNewRejectsInterleavedGroups(t *testing.T) {
	_, err := New([]string{"a", "a", "b", "a"})
	require.ErrorIs(t, err, ErrNotContiguous)
	assert.Contains(t, err.Error(), `"a" resumes at position 3 after ending at 1`)
}

func TestNewEmpty(t *testing.T) {
	g, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.SameGroupAt(nil, 1, sparse.Earlier))
}

func TestSameGroupAt(t *testing.T) {
	g, err := New([]string{"a", "a", "a", "b", "b", "b"})
	require.NoError(t, err)

	tests := []struct {
		distance int
		dir      sparse.Direction
		want     []bool
	}{
		{1, sparse.Earlier, []bool{false, true, true, false, true, true}},
		{2, sparse.Earlier, []bool{false, false, true, false, false, true}},
		{3, sparse.Earlier, []bool{false, false, false, false, false, false}},
		{1, sparse.Later, []bool{true, true, false, true, true, false}},
		{2, sparse.Later, []bool{true, false, false, true, false, false}},
		{5, sparse.Later, []bool{false, false, false, false, false, false}},
		{7, sparse.Earlier, []bool{false, false, false, false, false, false}},
	}
	for _, tt := range tests {
		got := g.SameGroupAt(nil, tt.distance, tt.dir)
		assert.Equal(t, tt.want, got, "distance %d %s", tt.distance, tt.dir)
	}
}

// A single group spanning the whole sequence would compare equal to its
// rotation everywhere; the wrapped edge positions must still be false.
func TestSameGroupAtForcesWrappedEdges(t *testing.T) {
	g, err := New([]string{"x", "x", "x", "x"})
	require.NoError(t, err)

	assert.Equal(t, []bool{false, true, true, true}, g.SameGroupAt(nil, 1, sparse.Earlier))
	assert.Equal(t, []bool{true, true, true, false}, g.SameGroupAt(nil, 1, sparse.Later))
	assert.Equal(t, []bool{false, false, false, false}, g.SameGroupAt(nil, 4, sparse.Later))
}

func TestSameGroupAtReusesBuffer(t *testing.T) {
	g, err := New([]string{"a", "b"})
	require.NoError(t, err)
	buf := make([]bool, 2)
	out := g.SameGroupAt(buf, 1, sparse.Later)
	assert.Same(t, &buf[0], &out[0])
}

func TestSameGroupAtMatchesDefinition(t *testing.T) {
	ids := []string{"p", "p", "q", "r", "r", "r", "r", "s", "s", "t"}
	g, err := New(ids)
	require.NoError(t, err)
	for d := 0; d <= len(ids)+1; d++ {
		for _, dir := range []sparse.Direction{sparse.Earlier, sparse.Later} {
			got := g.SameGroupAt(nil, d, dir)
			for i := range ids {
				j := i - d
				if dir == sparse.Later {
					j = i + d
				}
				want := j >= 0 && j < len(ids) && ids[i] == ids[j]
				assert.Equal(t, want, got[i], "i=%d d=%d %s", i, d, dir)
			}
		}
	}
}
