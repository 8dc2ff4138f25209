package sparse

import "gonum.org/v1/gonum/mat"

// ToDense converts the matrix to a gonum dense matrix. Intended for
// inspecting small slices; an empty shape yields an empty Dense.
func (m *Matrix) ToDense() *mat.Dense {
	if m.rows == 0 || m.cols == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(m.rows, m.cols, nil)
	m.Each(func(row, col int, value int32) {
		d.Set(row, col, float64(value))
	})
	return d
}

// FromDense builds a matrix from a gonum dense matrix, keeping positive
// entries truncated to integers.
func FromDense(d mat.Matrix) (*Matrix, error) {
	rows, cols := d.Dims()
	b := NewBuilder(rows, cols, 0)
	for i := range rows {
		for j := range cols {
			if v := d.At(i, j); v > 0 {
				b.Add(i, j, int32(v))
			}
		}
	}
	return b.Build()
}
