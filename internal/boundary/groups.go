// Package boundary interns per-token group identifiers and computes the
// same-group masks that keep windowed counts inside one document.
package boundary

import (
	"errors"
	"fmt"

	"github.com/happyhackingspace/cooc/sparse"
)

// ErrNotContiguous reports a group identifier that reappears after another
// group has intervened.
var ErrNotContiguous = errors.New("group identifiers are not contiguous")

// Groups is an immutable, interned group-identifier sequence. Every group
// occupies one contiguous run of positions.
type Groups struct {
	codes  []int32
	names  []string
	starts []int
	maxRun int
}

// New interns ids and checks that each identifier forms one contiguous run.
func New(ids []string) (*Groups, error) {
	g := &Groups{codes: make([]int32, len(ids))}
	seen := make(map[string]int32)
	for i, id := range ids {
		if i > 0 && id == ids[i-1] {
			g.codes[i] = g.codes[i-1]
			continue
		}
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: group %q resumes at position %d after ending at %d",
				ErrNotContiguous, id, i, g.starts[prev+1]-1)
		}
		code := int32(len(g.names))
		seen[id] = code
		g.names = append(g.names, id)
		g.starts = append(g.starts, i)
		g.codes[i] = code
	}
	g.starts = append(g.starts, len(ids))
	for code := range g.names {
		g.maxRun = max(g.maxRun, g.starts[code+1]-g.starts[code])
	}
	return g, nil
}

// Len returns the number of positions.
func (g *Groups) Len() int { return len(g.codes) }

// Count returns the number of distinct groups.
func (g *Groups) Count() int { return len(g.names) }

// Code returns the group code at position i.
func (g *Groups) Code(i int) int32 { return g.codes[i] }

// Codes returns the per-position group codes. Callers must not modify them.
func (g *Groups) Codes() []int32 { return g.codes }

// Name returns the identifier of group code.
func (g *Groups) Name(code int) string { return g.names[code] }

// Span returns the half-open position range of group code.
func (g *Groups) Span(code int) (lo, hi int) {
	return g.starts[code], g.starts[code+1]
}

// MaxRun returns the length of the longest group.
func (g *Groups) MaxRun() int { return g.maxRun }

// Lookup returns the code of a group identifier, or -1.
func (g *Groups) Lookup(name string) int {
	for code, n := range g.names {
		if n == name {
			return code
		}
	}
	return -1
}

// SameGroupAt reports, for every position i, whether the position distance
// steps away in dir exists and belongs to the same group as i.
//
// The group vector is compared element-wise with itself rotated by distance.
// Rotation brings the far end of the sequence around as a neighbour of the
// first (Earlier) or last (Later) distance positions, so those are forced to
// false. dst is reused when it has the right length.
func (g *Groups) SameGroupAt(dst []bool, distance int, dir sparse.Direction) []bool {
	n := len(g.codes)
	if len(dst) != n {
		dst = make([]bool, n)
	}
	if n == 0 {
		return dst
	}
	shift := distance % n
	if dir == sparse.Later {
		shift = -shift
	}
	for i, code := range g.codes {
		j := i - shift
		if j < 0 {
			j += n
		} else if j >= n {
			j -= n
		}
		dst[i] = code == g.codes[j]
	}

	edge := min(distance, n)
	if dir == sparse.Earlier {
		for i := range edge {
			dst[i] = false
		}
	} else {
		for i := n - edge; i < n; i++ {
			dst[i] = false
		}
	}
	return dst
}
