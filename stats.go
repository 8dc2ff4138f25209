package cooc

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a feature matrix.
type Stats struct {
	Rows      int     `json:"rows"`
	Cols      int     `json:"cols"`
	Nnz       int     `json:"nnz"`
	Density   float64 `json:"density"`
	Total     int64   `json:"total"`
	MaxCount  int32   `json:"max_count"`
	EmptyRows int     `json:"empty_rows"`
	// Mean and standard deviation of stored entries per row.
	RowNnzMean   float64 `json:"row_nnz_mean"`
	RowNnzStdDev float64 `json:"row_nnz_stddev"`
	// Columns holds per-column totals, largest first.
	Columns []ColumnTotal `json:"columns"`
}

// ColumnTotal is the summed count of one output column.
type ColumnTotal struct {
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

// Stats computes summary statistics over the feature matrix.
func (f *Features) Stats() Stats {
	m := f.Matrix
	rows, cols := m.Shape()
	s := Stats{Rows: rows, Cols: cols, Nnz: m.Nnz(), Total: m.Sum()}
	if rows > 0 && cols > 0 {
		s.Density = float64(s.Nnz) / (float64(rows) * float64(cols))
	}

	perRow := make([]float64, rows)
	for i := range rows {
		nnz := m.RowNnz(i)
		if nnz == 0 {
			s.EmptyRows++
		}
		perRow[i] = float64(nnz)
	}
	switch {
	case rows > 1:
		s.RowNnzMean, s.RowNnzStdDev = stat.MeanStdDev(perRow, nil)
	case rows == 1:
		s.RowNnzMean = perRow[0]
	}
	for _, v := range m.Data() {
		s.MaxCount = max(s.MaxCount, v)
	}

	names := f.Columns()
	sums := m.ColumnSums()
	s.Columns = make([]ColumnTotal, len(sums))
	for c, total := range sums {
		s.Columns[c] = ColumnTotal{Name: names[c], Total: total}
	}
	slices.SortStableFunc(s.Columns, func(a, b ColumnTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})
	return s
}
