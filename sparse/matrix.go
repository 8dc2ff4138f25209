// Package sparse implements compressed sparse row (CSR) count matrices and
// the row-shift, masking and stacking operations used to build windowed
// co-occurrence features without densifying.
//
// A Matrix is immutable once built: every operation returns a new value or a
// view that shares the source's arrays.
package sparse

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvariant reports a structure that fails well-formedness checks.
var ErrInvariant = errors.New("structural invariant violation")

// Matrix is a rows x cols CSR matrix of non-negative int32 counts.
// Row i holds the entries indices[indptr[i]:indptr[i+1]] (column ids, strictly
// increasing) with values data[indptr[i]:indptr[i+1]].
type Matrix struct {
	rows    int
	cols    int
	indptr  []int
	indices []int32
	data    []int32
}

// NewCSR wraps the given arrays as a Matrix after validating them.
// The slices are owned by the Matrix afterwards.
func NewCSR(rows, cols int, indptr []int, indices, data []int32) (*Matrix, error) {
	m := &Matrix{rows: rows, cols: cols, indptr: indptr, indices: indices, data: data}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Zeros returns an all-zero rows x cols matrix.
func Zeros(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, indptr: make([]int, rows+1)}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Shape returns (rows, cols).
func (m *Matrix) Shape() (int, int) { return m.rows, m.cols }

// Nnz returns the number of stored entries.
func (m *Matrix) Nnz() int {
	if len(m.indptr) == 0 {
		return 0
	}
	return m.indptr[m.rows] - m.indptr[0]
}

// RowNnz returns the number of stored entries in row i.
func (m *Matrix) RowNnz(i int) int {
	return m.indptr[i+1] - m.indptr[i]
}

// Row returns row i as a sparse vector sharing the matrix storage.
func (m *Matrix) Row(i int) Vector {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return Vector{Indices: m.indices[lo:hi], Values: m.data[lo:hi], Dim: m.cols}
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) int32 {
	return m.Row(i).Get(j)
}

// Sum returns the sum of all stored values.
func (m *Matrix) Sum() int64 {
	var total int64
	for _, v := range m.data[m.indptr[0]:m.indptr[m.rows]] {
		total += int64(v)
	}
	return total
}

// ColumnSums returns the per-column totals.
func (m *Matrix) ColumnSums() []int64 {
	sums := make([]int64, m.cols)
	for p := m.indptr[0]; p < m.indptr[m.rows]; p++ {
		sums[m.indices[p]] += int64(m.data[p])
	}
	return sums
}

// Each calls fn for every stored entry in row-major order.
func (m *Matrix) Each(fn func(row, col int, value int32)) {
	for i := range m.rows {
		for p := m.indptr[i]; p < m.indptr[i+1]; p++ {
			fn(i, int(m.indices[p]), m.data[p])
		}
	}
}

// Indptr, Indices and Data expose the raw CSR arrays for serialization.
// Callers must not modify them.
func (m *Matrix) Indptr() []int    { return m.indptr }
func (m *Matrix) Indices() []int32 { return m.indices }
func (m *Matrix) Data() []int32    { return m.data }

// Slice returns rows [lo, hi) as a new compact matrix.
func (m *Matrix) Slice(lo, hi int) (*Matrix, error) {
	if lo < 0 || hi > m.rows || lo > hi {
		return nil, fmt.Errorf("%w: row slice [%d, %d) outside %d rows", ErrInvariant, lo, hi, m.rows)
	}
	start, end := m.indptr[lo], m.indptr[hi]
	indptr := make([]int, hi-lo+1)
	for i := range indptr {
		indptr[i] = m.indptr[lo+i] - start
	}
	return &Matrix{
		rows:    hi - lo,
		cols:    m.cols,
		indptr:  indptr,
		indices: append([]int32(nil), m.indices[start:end]...),
		data:    append([]int32(nil), m.data[start:end]...),
	}, nil
}

// Validate checks the CSR well-formedness rules: row boundaries start at 0,
// are non-decreasing and cover the stored arrays exactly; column ids are in
// range and strictly increasing within each row; values are non-negative.
func (m *Matrix) Validate() error {
	if m.rows < 0 || m.cols < 0 {
		return fmt.Errorf("%w: negative shape %dx%d", ErrInvariant, m.rows, m.cols)
	}
	if len(m.indptr) != m.rows+1 {
		return fmt.Errorf("%w: indptr length %d, want %d", ErrInvariant, len(m.indptr), m.rows+1)
	}
	if m.indptr[0] != 0 {
		return fmt.Errorf("%w: indptr[0] = %d, want 0", ErrInvariant, m.indptr[0])
	}
	nnz := m.indptr[m.rows]
	if len(m.indices) != nnz || len(m.data) != nnz {
		return fmt.Errorf("%w: %d indices and %d values for %d entries", ErrInvariant, len(m.indices), len(m.data), nnz)
	}
	for i := range m.rows {
		lo, hi := m.indptr[i], m.indptr[i+1]
		if hi < lo {
			return fmt.Errorf("%w: row %d boundaries decrease (%d > %d)", ErrInvariant, i, lo, hi)
		}
		if hi > nnz {
			return fmt.Errorf("%w: row %d ends at %d past %d entries", ErrInvariant, i, hi, nnz)
		}
	}
	for i := range m.rows {
		lo, hi := m.indptr[i], m.indptr[i+1]
		prev := int32(-1)
		for p := lo; p < hi; p++ {
			c := m.indices[p]
			if c < 0 || int(c) >= m.cols {
				return fmt.Errorf("%w: row %d column %d outside [0, %d)", ErrInvariant, i, c, m.cols)
			}
			if c <= prev {
				return fmt.Errorf("%w: row %d columns not strictly increasing at %d", ErrInvariant, i, c)
			}
			if m.data[p] < 0 {
				return fmt.Errorf("%w: row %d column %d has negative value %d", ErrInvariant, i, c, m.data[p])
			}
			prev = c
		}
	}
	return nil
}

// Release drops the matrix storage. The matrix must not be used afterwards.
func (m *Matrix) Release() {
	m.rows, m.cols = 0, 0
	m.indptr = []int{0}
	m.indices = nil
	m.data = nil
}

// sortRow sorts one row's (column, value) pairs by column.
func sortRow(cols, vals []int32) {
	if len(cols) <= 16 {
		for i := 1; i < len(cols); i++ {
			for j := i; j > 0 && cols[j] < cols[j-1]; j-- {
				cols[j], cols[j-1] = cols[j-1], cols[j]
				vals[j], vals[j-1] = vals[j-1], vals[j]
			}
		}
		return
	}
	sort.Sort(rowSorter{cols: cols, vals: vals})
}

type rowSorter struct {
	cols, vals []int32
}

func (r rowSorter) Len() int           { return len(r.cols) }
func (r rowSorter) Less(i, j int) bool { return r.cols[i] < r.cols[j] }
func (r rowSorter) Swap(i, j int) {
	r.cols[i], r.cols[j] = r.cols[j], r.cols[i]
	r.vals[i], r.vals[j] = r.vals[j], r.vals[i]
}
