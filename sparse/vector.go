package sparse

// Vector represents one sparse row of counts.
type Vector struct {
	Indices []int32
	Values  []int32
	Dim     int
}

// NewVector creates an empty sparse vector with given dimension.
func NewVector(dim int) Vector {
	return Vector{Dim: dim}
}

// Set adds or updates a value at the given index, keeping indices sorted.
func (v *Vector) Set(idx int, val int32) {
	pos := v.search(idx)
	if pos < len(v.Indices) && int(v.Indices[pos]) == idx {
		v.Values[pos] = val
		return
	}
	v.Indices = append(v.Indices, 0)
	v.Values = append(v.Values, 0)
	copy(v.Indices[pos+1:], v.Indices[pos:])
	copy(v.Values[pos+1:], v.Values[pos:])
	v.Indices[pos] = int32(idx)
	v.Values[pos] = val
}

// Get returns the value at idx, or 0 when it is not stored.
func (v Vector) Get(idx int) int32 {
	pos := v.search(idx)
	if pos < len(v.Indices) && int(v.Indices[pos]) == idx {
		return v.Values[pos]
	}
	return 0
}

// search returns the first position whose index is >= idx.
func (v Vector) search(idx int) int {
	lo, hi := 0, len(v.Indices)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if int(v.Indices[mid]) < idx {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// ToDense converts to a dense count slice.
func (v Vector) ToDense() []int32 {
	dense := make([]int32, v.Dim)
	for i, idx := range v.Indices {
		if int(idx) < v.Dim {
			dense[idx] = v.Values[i]
		}
	}
	return dense
}

// Nnz returns the number of non-zero entries.
func (v Vector) Nnz() int {
	return len(v.Indices)
}

// Sum returns the sum of the stored values.
func (v Vector) Sum() int64 {
	var sum int64
	for _, x := range v.Values {
		sum += int64(x)
	}
	return sum
}
