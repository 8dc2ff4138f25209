package sparse

import "fmt"

// Builder collects (row, col, value) triples and compresses them into a
// Matrix. Triples may arrive in any order; duplicates are summed.
type Builder struct {
	rows, cols int
	r, c, v    []int32
}

// NewBuilder returns a builder for a rows x cols matrix with room for
// capacity triples.
func NewBuilder(rows, cols, capacity int) *Builder {
	return &Builder{
		rows: rows,
		cols: cols,
		r:    make([]int32, 0, capacity),
		c:    make([]int32, 0, capacity),
		v:    make([]int32, 0, capacity),
	}
}

// Add records value at (row, col). Range checks are deferred to Build.
func (b *Builder) Add(row, col int, value int32) {
	b.r = append(b.r, int32(row))
	b.c = append(b.c, int32(col))
	b.v = append(b.v, value)
}

// Len returns the number of triples recorded so far.
func (b *Builder) Len() int {
	return len(b.r)
}

// Build compresses the recorded triples into a validated Matrix and resets
// the builder.
func (b *Builder) Build() (*Matrix, error) {
	n := len(b.r)
	// starts[i] is the first slot of row i after the counting pass.
	starts := make([]int, b.rows+1)
	for k := range n {
		r, c := int(b.r[k]), int(b.c[k])
		if r < 0 || r >= b.rows || c < 0 || c >= b.cols {
			return nil, fmt.Errorf("%w: entry (%d, %d) outside %dx%d", ErrInvariant, r, c, b.rows, b.cols)
		}
		if b.v[k] < 0 {
			return nil, fmt.Errorf("%w: entry (%d, %d) has negative value %d", ErrInvariant, r, c, b.v[k])
		}
		starts[r+1]++
	}
	for i := range b.rows {
		starts[i+1] += starts[i]
	}

	cols := make([]int32, n)
	vals := make([]int32, n)
	cursor := make([]int, b.rows)
	copy(cursor, starts[:b.rows])
	for k := range n {
		r := b.r[k]
		p := cursor[r]
		cols[p] = b.c[k]
		vals[p] = b.v[k]
		cursor[r]++
	}
	b.r, b.c, b.v = nil, nil, nil

	// Sort each row by column and merge duplicates, compacting in place.
	indptr := make([]int, b.rows+1)
	w := 0
	for i := range b.rows {
		lo, hi := starts[i], starts[i+1]
		sortRow(cols[lo:hi], vals[lo:hi])
		rowStart := w
		for p := lo; p < hi; p++ {
			if vals[p] == 0 {
				continue
			}
			if w > rowStart && cols[w-1] == cols[p] {
				vals[w-1] += vals[p]
				continue
			}
			cols[w] = cols[p]
			vals[w] = vals[p]
			w++
		}
		indptr[i+1] = w
	}

	if w < n {
		cols = append(make([]int32, 0, w), cols[:w]...)
		vals = append(make([]int32, 0, w), vals[:w]...)
	}
	return NewCSR(b.rows, b.cols, indptr, cols, vals)
}
