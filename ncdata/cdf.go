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

package ncdata

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/spatialmodel/gridtiff/dap"
)

// OpenCDF loads the header of a classic or 64-bit offset NetCDF file.
// Variable data is read from rw on demand, so rw must remain open for as
// long as the dataset is used. Character variables are skipped.
//
// The length of the record dimension is taken from the file size when
// rw has a Stat method (as *os.File does); otherwise record variables
// have no records.
func OpenCDF(rw cdf.ReaderWriterAt, name string) (*dap.Dataset, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("ncdata: opening %s: %v", name, err)
	}
	h := f.Header
	var numRecs int
	if s, ok := rw.(interface {
		Stat() (os.FileInfo, error)
	}); ok {
		if fi, err := s.Stat(); err == nil {
			numRecs = int(h.NumRecs(fi.Size()))
		}
	}

	ds := &dap.Dataset{Name: name}
	for _, a := range h.Attributes("") {
		ds.Attrs.Set(a, attrString(h.GetAttribute("", a)))
	}
	var vars []variable
	for _, v := range h.Variables() {
		elem, ok := cdfType(h.ZeroValue(v, 0))
		if !ok {
			continue
		}
		sizes := append([]int(nil), h.Lengths(v)...)
		if h.IsRecordVariable(v) {
			sizes[0] = numRecs
		}
		nv := variable{
			name:  v,
			dims:  h.Dimensions(v),
			sizes: sizes,
			elem:  elem,
			src:   cdfSource{f: f, name: v},
		}
		for _, a := range h.Attributes(v) {
			nv.attrs = append(nv.attrs, [2]string{a, attrString(h.GetAttribute(v, a))})
		}
		vars = append(vars, nv)
	}
	ds.Vars = build(vars, nil)
	return ds, nil
}

func cdfType(zero interface{}) (dap.Type, bool) {
	switch zero.(type) {
	case []uint8:
		return dap.Byte, true
	case []int16:
		return dap.Int16, true
	case []int32:
		return dap.Int32, true
	case []float32:
		return dap.Float32, true
	case []float64:
		return dap.Float64, true
	default:
		return 0, false
	}
}

// cdfSource reads hyperslabs of one variable. Each run of the innermost
// dimension is read contiguously and then strided in memory.
type cdfSource struct {
	f    *cdf.File
	name string
}

func (s cdfSource) Read(dims []dap.Dim) ([]float64, error) {
	n := 1
	for _, d := range dims {
		n *= d.Len()
	}
	out := make([]float64, 0, n)
	if n == 0 {
		return out, nil
	}
	if len(dims) == 0 {
		return s.readRun(nil, nil, 1, out)
	}

	last := len(dims) - 1
	begin := make([]int, len(dims))
	end := make([]int, len(dims))
	for i, d := range dims {
		begin[i] = d.Start
		end[i] = d.Start
	}
	begin[last] = dims[last].Start
	end[last] = dims[last].Stop
	var err error
	for {
		out, err = s.readRun(begin, end, dims[last].Stride, out)
		if err != nil {
			return nil, err
		}
		i := last - 1
		for ; i >= 0; i-- {
			begin[i] += dims[i].Stride
			if begin[i] <= dims[i].Stop {
				break
			}
			begin[i] = dims[i].Start
		}
		if i < 0 {
			return out, nil
		}
		copy(end[:last], begin[:last])
	}
}

// readRun reads the elements from begin to end inclusive, keeping every
// stride'th one.
func (s cdfSource) readRun(begin, end []int, stride int, out []float64) ([]float64, error) {
	n := 1
	if begin != nil {
		n = end[len(end)-1] - begin[len(begin)-1] + 1
	}
	r := s.f.Reader(s.name, begin, end)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("ncdata: reading %s at %v: %v", s.name, begin, err)
	}
	switch t := buf.(type) {
	case []uint8:
		for i := 0; i < len(t); i += stride {
			out = append(out, float64(t[i]))
		}
	case []int16:
		for i := 0; i < len(t); i += stride {
			out = append(out, float64(t[i]))
		}
	case []int32:
		for i := 0; i < len(t); i += stride {
			out = append(out, float64(t[i]))
		}
	case []float32:
		for i := 0; i < len(t); i += stride {
			out = append(out, float64(t[i]))
		}
	case []float64:
		for i := 0; i < len(t); i += stride {
			out = append(out, t[i])
		}
	default:
		return nil, fmt.Errorf("ncdata: unsupported type %T for %s", buf, s.name)
	}
	return out, nil
}
