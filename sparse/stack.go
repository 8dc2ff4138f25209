package sparse

import "fmt"

// HStack concatenates matrices column-wise. All inputs must have the same
// row count; row i of the result is row i of each input in order, with
// column ids offset by the widths of the inputs before it.
func HStack(parts ...*Matrix) (*Matrix, error) {
	if len(parts) == 0 {
		return Zeros(0, 0), nil
	}
	rows := parts[0].rows
	cols, nnz := 0, 0
	for i, p := range parts {
		if p.rows != rows {
			return nil, fmt.Errorf("%w: hstack part %d has %d rows, want %d", ErrInvariant, i, p.rows, rows)
		}
		cols += p.cols
		nnz += p.Nnz()
	}

	indptr := make([]int, rows+1)
	indices := make([]int32, 0, nnz)
	data := make([]int32, 0, nnz)
	for r := range rows {
		offset := int32(0)
		for _, p := range parts {
			lo, hi := p.indptr[r], p.indptr[r+1]
			for k := lo; k < hi; k++ {
				indices = append(indices, p.indices[k]+offset)
			}
			data = append(data, p.data[lo:hi]...)
			offset += int32(p.cols)
		}
		indptr[r+1] = len(indices)
	}
	return NewCSR(rows, cols, indptr, indices, data)
}
