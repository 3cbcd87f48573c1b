// internal/ndarray/ndarray.go
// Minimal row-major float64 N-d array with numpy-style broadcasting.
//
// Only what the repression model needs: construction, elementwise evaluation of
// an n-ary function over broadcast inputs, transpose and meshgrid. Arrays are
// immutable once built; every accessor that exposes storage returns a copy.

package ndarray

import (
	"fmt"
	"strconv"
	"strings"
)

// Array is an immutable row-major float64 array. A zero-dimensional array
// (empty shape) holds a single scalar value.
type Array struct {
	shape []int
	data  []float64
}

// ShapeMismatchError reports operands that cannot be broadcast together.
type ShapeMismatchError struct {
	Shapes [][]int
}

func (e *ShapeMismatchError) Error() string {
	parts := make([]string, len(e.Shapes))
	for i, s := range e.Shapes {
		parts[i] = FormatShape(s)
	}
	return "shape mismatch: operands cannot be broadcast together with shapes " + strings.Join(parts, " ")
}

// FormatShape renders a shape the way numpy prints it: (), (3,), (2, 3).
func FormatShape(shape []int) string {
	switch len(shape) {
	case 0:
		return "()"
	case 1:
		return "(" + strconv.Itoa(shape[0]) + ",)"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = strconv.Itoa(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Scalar returns a zero-dimensional array holding v.
func Scalar(v float64) Array {
	return Array{shape: []int{}, data: []float64{v}}
}

// Vector returns a one-dimensional array holding a copy of v.
func Vector(v []float64) Array {
	return Array{shape: []int{len(v)}, data: clone(v)}
}

// New builds an array from row-major data. len(data) must equal the product of shape.
func New(shape []int, data []float64) (Array, error) {
	for _, d := range shape {
		if d < 0 {
			return Array{}, fmt.Errorf("ndarray: negative dimension in shape %s", FormatShape(shape))
		}
	}
	if n := product(shape); n != len(data) {
		return Array{}, fmt.Errorf("ndarray: %d values cannot fill shape %s", len(data), FormatShape(shape))
	}
	return Array{shape: append([]int{}, shape...), data: clone(data)}, nil
}

// IsEmpty reports whether a is the zero Array (never assigned).
func (a Array) IsEmpty() bool { return a.data == nil }

// Shape returns a copy of the array's dimensions.
func (a Array) Shape() []int { return append([]int{}, a.shape...) }

// Ndim is the number of dimensions.
func (a Array) Ndim() int { return len(a.shape) }

// Size is the number of elements.
func (a Array) Size() int { return len(a.data) }

// Data returns a copy of the row-major storage.
func (a Array) Data() []float64 { return clone(a.data) }

// Item returns the single value of a one-element array.
func (a Array) Item() (float64, bool) {
	if len(a.data) != 1 {
		return 0, false
	}
	return a.data[0], true
}

// At returns the element at the given multi-index. It panics on a bad index,
// like slice indexing does.
func (a Array) At(idx ...int) float64 {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("ndarray: %d indices for %d-d array", len(idx), len(a.shape)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			panic(fmt.Sprintf("ndarray: index %d out of range for axis %d with size %d", i, d, a.shape[d]))
		}
		off = off*a.shape[d] + i
	}
	return a.data[off]
}

// T returns the transpose (axes reversed). Arrays with fewer than two
// dimensions are returned unchanged.
func (a Array) T() Array {
	nd := len(a.shape)
	if nd < 2 {
		return Array{shape: a.Shape(), data: a.Data()}
	}
	shape := make([]int, nd)
	for d := range shape {
		shape[d] = a.shape[nd-1-d]
	}
	src := strides(a.shape)
	out := make([]float64, len(a.data))
	idx := make([]int, nd)
	for k := range out {
		off := 0
		for d := 0; d < nd; d++ {
			off += idx[d] * src[nd-1-d]
		}
		out[k] = a.data[off]
		for d := nd - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return Array{shape: shape, data: out}
}

// Map applies fn to every element.
func (a Array) Map(fn func(float64) float64) Array {
	out := make([]float64, len(a.data))
	for i, v := range a.data {
		out[i] = fn(v)
	}
	return Array{shape: a.Shape(), data: out}
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func strides(shape []int) []int {
	s := make([]int, len(shape))
	acc := 1
	for d := len(shape) - 1; d >= 0; d-- {
		s[d] = acc
		acc *= shape[d]
	}
	return s
}

// clone copies v into a non-nil slice so an empty array is never IsEmpty.
func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
