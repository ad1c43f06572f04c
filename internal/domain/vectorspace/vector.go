package vectorspace

import (
	"fmt"
	"math"
	"sort"
)

// Vector is a sparse vector with strictly increasing indices.
type Vector struct {
	indices []int
	values  []float64
}

// NewVector validates and creates a sparse vector.
// Indices are sorted; duplicate or negative indices are rejected. Zero values are dropped.
func NewVector(indices []int, values []float64) (Vector, error) {
	if len(indices) != len(values) {
		return Vector{}, fmt.Errorf("indices/values length mismatch: %d != %d", len(indices), len(values))
	}

	type entry struct {
		idx int
		val float64
	}
	entries := make([]entry, 0, len(indices))
	for i, idx := range indices {
		if idx < 0 {
			return Vector{}, fmt.Errorf("negative index %d", idx)
		}
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			return Vector{}, fmt.Errorf("non-finite value at index %d", idx)
		}
		if values[i] == 0 {
			continue
		}
		entries = append(entries, entry{idx: idx, val: values[i]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	v := Vector{
		indices: make([]int, len(entries)),
		values:  make([]float64, len(entries)),
	}
	for i, e := range entries {
		if i > 0 && e.idx == entries[i-1].idx {
			return Vector{}, fmt.Errorf("duplicate index %d", e.idx)
		}
		v.indices[i] = e.idx
		v.values[i] = e.val
	}
	return v, nil
}

// Dense creates a vector from a dense slice.
func Dense(values []float64) (Vector, error) {
	indices := make([]int, len(values))
	for i := range values {
		indices[i] = i
	}
	return NewVector(indices, values)
}

// NNZ returns the number of non-zero components.
func (v Vector) NNZ() int { return len(v.indices) }

// MaxIndex returns the largest index, or -1 for the zero vector.
func (v Vector) MaxIndex() int {
	if len(v.indices) == 0 {
		return -1
	}
	return v.indices[len(v.indices)-1]
}

// At returns the component at index i.
func (v Vector) At(i int) float64 {
	k := sort.SearchInts(v.indices, i)
	if k < len(v.indices) && v.indices[k] == i {
		return v.values[k]
	}
	return 0
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(u Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.indices) && j < len(u.indices) {
		switch {
		case v.indices[i] == u.indices[j]:
			sum += v.values[i] * u.values[j]
			i++
			j++
		case v.indices[i] < u.indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine returns (u·v)/(‖u‖‖v‖), or 0 when either vector has zero magnitude.
// The result is clamped to [-1, 1] to absorb rounding.
func Cosine(u, v Vector) float64 {
	nu, nv := u.Norm(), v.Norm()
	if nu == 0 || nv == 0 {
		return 0
	}
	s := u.Dot(v) / (nu * nv)
	return math.Max(-1, math.Min(1, s))
}
