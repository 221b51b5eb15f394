/*
Copyright © 2026 the gridtiff authors.
This file is part of gridtiff.

gridtiff is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridtiff is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridtiff.  If not, see <http://www.gnu.org/licenses/>.
*/

package dap

import "fmt"

// Dim is one dimension of an array together with its current hyperslab.
// Start and Stop are inclusive indices into the unconstrained dimension.
type Dim struct {
	Name string
	Size int

	Start, Stride, Stop int
}

// Len returns the number of elements selected along the dimension.
func (d Dim) Len() int {
	if d.Size == 0 || d.Stop < d.Start {
		return 0
	}
	return (d.Stop-d.Start)/d.Stride + 1
}

func (d Dim) String() string {
	return fmt.Sprintf("%s[%d:%d:%d]", d.Name, d.Start, d.Stride, d.Stop)
}

// A Source reads the values of an array that fall inside the hyperslab
// described by dims, returning them in row-major order converted to float64.
type Source interface {
	Read(dims []Dim) ([]float64, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(dims []Dim) ([]float64, error)

// Read calls f(dims).
func (f SourceFunc) Read(dims []Dim) ([]float64, error) { return f(dims) }

// Memory returns a Source backed by the fully materialized row-major values
// of an array.
func Memory(values []float64) Source {
	return SourceFunc(func(dims []Dim) ([]float64, error) {
		n := 1
		for _, d := range dims {
			n *= d.Size
		}
		if n != len(values) {
			return nil, fmt.Errorf("dap: memory source holds %d values but dimensions require %d", len(values), n)
		}
		return Hyperslab(values, dims), nil
	})
}

// Hyperslab selects the constrained elements of the row-major values of an
// array with the given dimensions.
func Hyperslab(values []float64, dims []Dim) []float64 {
	if len(dims) == 0 {
		return append([]float64(nil), values...)
	}
	n := 1
	for _, d := range dims {
		n *= d.Len()
	}
	out := make([]float64, 0, n)
	if n == 0 {
		return out
	}
	strides := make([]int, len(dims))
	s := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = s
		s *= dims[i].Size
	}
	index := make([]int, len(dims))
	for i, d := range dims {
		index[i] = d.Start
	}
	for {
		off := 0
		for i, ii := range index {
			off += ii * strides[i]
		}
		out = append(out, values[off])

		// Advance the multi-index, innermost dimension fastest.
		i := len(dims) - 1
		for ; i >= 0; i-- {
			index[i] += dims[i].Stride
			if index[i] <= dims[i].Stop {
				break
			}
			index[i] = dims[i].Start
		}
		if i < 0 {
			return out
		}
	}
}

// Array is an n-dimensional array of numbers whose values are read lazily
// from a Source.
type Array struct {
	node

	// Elem is the type of the stored elements. Values are always
	// presented as float64.
	Elem Type

	dims   []Dim
	src    Source
	values []float64
}

// NewArray returns an array with the named dimensions and sizes. Only Name
// and Size of each dimension are used; the constraint is reset to select
// every element.
func NewArray(name string, elem Type, dims []Dim, src Source) *Array {
	a := &Array{
		node: node{name: name, send: true},
		Elem: elem,
		dims: append([]Dim(nil), dims...),
		src:  src,
	}
	a.ResetConstraint()
	return a
}

// Type returns ArrayType.
func (a *Array) Type() Type { return ArrayType }

// Dims returns a copy of the array's dimensions with their current
// constraints.
func (a *Array) Dims() []Dim { return append([]Dim(nil), a.dims...) }

// NumDims returns the number of dimensions.
func (a *Array) NumDims() int { return len(a.dims) }

// Length returns the number of elements selected by the current
// constraint.
func (a *Array) Length() int {
	n := 1
	for _, d := range a.dims {
		n *= d.Len()
	}
	return n
}

// Constrain sets the hyperslab of dimension i. Stop is inclusive.
func (a *Array) Constrain(i, start, stride, stop int) error {
	if i < 0 || i >= len(a.dims) {
		return fmt.Errorf("%w: %s has no dimension %d", ErrConstraint, a.name, i)
	}
	d := a.dims[i]
	if stride < 1 {
		return fmt.Errorf("%w: %s: stride %d must be positive", ErrConstraint, a.name, stride)
	}
	if start < 0 || stop < start || stop >= d.Size {
		return fmt.Errorf("%w: %s: hyperslab [%d:%d:%d] out of range for dimension %s of size %d",
			ErrConstraint, a.name, start, stride, stop, d.Name, d.Size)
	}
	a.dims[i].Start, a.dims[i].Stride, a.dims[i].Stop = start, stride, stop
	a.values = nil
	return nil
}

// ResetConstraint selects every element of the array.
func (a *Array) ResetConstraint() {
	for i := range a.dims {
		a.dims[i].Start, a.dims[i].Stride, a.dims[i].Stop = 0, 1, a.dims[i].Size-1
	}
	a.values = nil
}

// ReadP reports whether the values for the current constraint have been
// read.
func (a *Array) ReadP() bool { return a.values != nil }

// Read materializes the values selected by the current constraint.
// It is a no-op if they have already been read.
func (a *Array) Read() error {
	if a.values != nil {
		return nil
	}
	if a.src == nil {
		return fmt.Errorf("dap: array %s has no data source", a.name)
	}
	v, err := a.src.Read(a.Dims())
	if err != nil {
		return fmt.Errorf("dap: reading %s: %w", a.name, err)
	}
	if len(v) != a.Length() {
		return fmt.Errorf("dap: reading %s: got %d values, want %d", a.name, len(v), a.Length())
	}
	a.values = v
	return nil
}

// Float64s returns the values read by Read, or nil if the array has not
// been read. The returned slice is shared with the array.
func (a *Array) Float64s() []float64 { return a.values }
