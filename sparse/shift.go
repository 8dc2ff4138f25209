package sparse

import "fmt"

// Direction selects which neighbour a shifted row is read from.
type Direction int

const (
	// Earlier reads row i from row i-1 (values move down, row 0 empties).
	Earlier Direction = iota
	// Later reads row i from row i+1 (values move up, the last row empties).
	Later
)

// String returns "earlier" or "later".
func (d Direction) String() string {
	switch d {
	case Earlier:
		return "earlier"
	case Later:
		return "later"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "earlier":
		*d = Earlier
	case "later":
		*d = Later
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Earlier {
		return Later
	}
	return Earlier
}

// Shifted is a Matrix read some number of rows away from itself.
//
// Row i of a Shifted is row i+offset of the source when i lies in the live
// window [lo, hi), and empty otherwise. Shifting only moves offset and the
// window bounds, so each step costs O(1) regardless of rows or entries, and
// a row that falls off one end never wraps around to the other.
type Shifted struct {
	src    *Matrix
	offset int
	lo, hi int
}

// View returns the unshifted view of m.
func (m *Matrix) View() *Shifted {
	return &Shifted{src: m, lo: 0, hi: m.rows}
}

// Rows returns the number of rows (always the source's row count).
func (s *Shifted) Rows() int { return s.src.rows }

// Cols returns the number of columns.
func (s *Shifted) Cols() int { return s.src.cols }

// Offset returns the signed distance from a live row to its source row.
func (s *Shifted) Offset() int { return s.offset }

// Live returns the half-open range of rows that still carry source data.
func (s *Shifted) Live() (lo, hi int) { return s.lo, s.hi }

// Nnz returns the number of entries visible through the view.
func (s *Shifted) Nnz() int {
	if s.lo >= s.hi {
		return 0
	}
	return s.src.indptr[s.hi+s.offset] - s.src.indptr[s.lo+s.offset]
}

// RowNnz returns the number of entries visible in row i.
func (s *Shifted) RowNnz(i int) int {
	if i < s.lo || i >= s.hi {
		return 0
	}
	return s.src.RowNnz(i + s.offset)
}

// Row returns row i as a vector sharing the source storage.
func (s *Shifted) Row(i int) Vector {
	if i < s.lo || i >= s.hi {
		return NewVector(s.src.cols)
	}
	return s.src.Row(i + s.offset)
}

// Shift returns the view read one further row in dir. The row that falls
// off the boundary is dropped and the row exposed at the other end is empty.
// The result is checked for window well-formedness and entry conservation.
func (s *Shifted) Shift(dir Direction) (*Shifted, error) {
	n := s.src.rows
	next := &Shifted{src: s.src}
	var vacated int
	switch dir {
	case Later:
		// Row i <- row i+1. Row 0 of s falls off; row n-1 becomes empty.
		vacated = s.RowNnz(0)
		next.offset = s.offset + 1
		next.lo = max(s.lo-1, 0)
		next.hi = max(s.hi-1, next.lo)
	case Earlier:
		// Row i <- row i-1. Row n-1 of s falls off; row 0 becomes empty.
		vacated = s.RowNnz(n - 1)
		next.offset = s.offset - 1
		next.lo = min(s.lo+1, n)
		next.hi = max(min(s.hi+1, n), next.lo)
	default:
		return nil, fmt.Errorf("%w: unknown shift %s", ErrInvariant, dir)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if got, want := next.Nnz(), s.Nnz()-vacated; got != want {
		return nil, fmt.Errorf("%w: shift %s kept %d entries, want %d", ErrInvariant, dir, got, want)
	}
	return next, nil
}

// ShiftBy applies Shift distance times.
func (s *Shifted) ShiftBy(dir Direction, distance int) (*Shifted, error) {
	cur := s
	for range distance {
		next, err := cur.Shift(dir)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Validate checks that the live window lies within the matrix and maps onto
// existing source rows.
func (s *Shifted) Validate() error {
	n := s.src.rows
	if s.lo < 0 || s.lo > s.hi || s.hi > n {
		return fmt.Errorf("%w: live window [%d, %d) outside %d rows", ErrInvariant, s.lo, s.hi, n)
	}
	if s.lo < s.hi && (s.lo+s.offset < 0 || s.hi+s.offset > n) {
		return fmt.Errorf("%w: live window [%d, %d) with offset %d reads outside source", ErrInvariant, s.lo, s.hi, s.offset)
	}
	return nil
}

// AddMaskedTo appends every visible entry of row i to b, for rows where
// keep[i] is true. It returns the number of entries appended.
func (s *Shifted) AddMaskedTo(b *Builder, keep []bool) (int, error) {
	if len(keep) != s.src.rows {
		return 0, fmt.Errorf("%w: mask length %d for %d rows", ErrInvariant, len(keep), s.src.rows)
	}
	src := s.src
	added := 0
	for i := s.lo; i < s.hi; i++ {
		if !keep[i] {
			continue
		}
		r := i + s.offset
		for p := src.indptr[r]; p < src.indptr[r+1]; p++ {
			b.Add(i, int(src.indices[p]), src.data[p])
		}
		added += src.indptr[r+1] - src.indptr[r]
	}
	return added, nil
}

// Matrix materializes the view as a compact Matrix.
func (s *Shifted) Matrix() *Matrix {
	src := s.src
	n := src.rows
	indptr := make([]int, n+1)
	nnz := s.Nnz()
	indices := make([]int32, 0, nnz)
	data := make([]int32, 0, nnz)
	for i := range n {
		if i >= s.lo && i < s.hi {
			r := i + s.offset
			indices = append(indices, src.indices[src.indptr[r]:src.indptr[r+1]]...)
			data = append(data, src.data[src.indptr[r]:src.indptr[r+1]]...)
		}
		indptr[i+1] = len(indices)
	}
	return &Matrix{rows: n, cols: src.cols, indptr: indptr, indices: indices, data: data}
}
