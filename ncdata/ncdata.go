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

// Package ncdata loads NetCDF files into the dap dataset model.
//
// A variable that is one-dimensional and named after its dimension is a
// coordinate variable. A variable whose every dimension has a coordinate
// variable is presented as a dap.Grid with those coordinate variables as
// its maps; every other numeric variable is a dap.Array.
package ncdata

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/spatialmodel/gridtiff/dap"
)

// variable is the format-independent description of a stored variable.
type variable struct {
	name  string
	dims  []string
	sizes []int
	elem  dap.Type
	attrs [][2]string
	src   dap.Source
}

func (v *variable) newArray() *dap.Array {
	dims := make([]dap.Dim, len(v.dims))
	for i, d := range v.dims {
		dims[i] = dap.Dim{Name: d, Size: v.sizes[i]}
	}
	a := dap.NewArray(v.name, v.elem, dims, v.src)
	for _, kv := range v.attrs {
		a.Attributes().Set(kv[0], kv[1])
	}
	return a
}

func (v *variable) isCoordinate() bool {
	return len(v.dims) == 1 && v.dims[0] == v.name
}

// build assembles dap variables from vars. coords holds coordinate
// variables inherited from enclosing groups and is not modified.
func build(vars []variable, coords map[string]*variable) []dap.Variable {
	local := make(map[string]*variable, len(coords))
	for k, v := range coords {
		local[k] = v
	}
	for i := range vars {
		if vars[i].isCoordinate() {
			local[vars[i].name] = &vars[i]
		}
	}
	out := make([]dap.Variable, 0, len(vars))
	for i := range vars {
		v := &vars[i]
		if v.isCoordinate() || len(v.dims) == 0 {
			out = append(out, v.newArray())
			continue
		}
		maps := make([]*dap.Array, 0, len(v.dims))
		for _, d := range v.dims {
			c, ok := local[d]
			if !ok {
				break
			}
			maps = append(maps, c.newArray())
		}
		if len(maps) != len(v.dims) {
			out = append(out, v.newArray())
			continue
		}
		g := dap.NewGrid(v.newArray(), maps...)
		for _, kv := range v.attrs {
			g.Attributes().Set(kv[0], kv[1])
		}
		out = append(out, g)
	}
	return out
}

// attrString renders an attribute value as a string. Multiple values are
// separated by ", ".
func attrString(val interface{}) string {
	switch t := val.(type) {
	case string:
		return strings.TrimRight(t, "\x00")
	case []byte:
		return strings.TrimRight(string(t), "\x00")
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Slice {
		return fmt.Sprint(val)
	}
	s := make([]string, rv.Len())
	for i := range s {
		s[i] = attrString(rv.Index(i).Interface())
	}
	return strings.Join(s, ", ")
}

// File is a dataset loaded from a NetCDF file.
type File struct {
	*dap.Dataset
	c io.Closer
}

// Close releases the underlying file. Arrays that have not been read can
// no longer be read after Close.
func (f *File) Close() error {
	if f.c == nil {
		return nil
	}
	return f.c.Close()
}

var (
	sigCDF1 = []byte("CDF\x01")
	sigCDF2 = []byte("CDF\x02")
	sigCDF5 = []byte("CDF\x05")
	sigHDF5 = []byte("\x89HDF")
)

// Open loads the NetCDF file at path, choosing the reader from the file
// signature. Classic and 64-bit offset files are read lazily; NetCDF-4
// and CDF-5 files are read in full.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ncdata: %v", err)
	}
	sig := make([]byte, 4)
	if _, err := io.ReadFull(f, sig); err != nil {
		f.Close()
		return nil, fmt.Errorf("ncdata: reading signature of %s: %v", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch {
	case bytes.Equal(sig, sigCDF1), bytes.Equal(sig, sigCDF2):
		ds, err := OpenCDF(readOnly{f}, name)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &File{Dataset: ds, c: f}, nil
	case bytes.Equal(sig, sigCDF5), bytes.Equal(sig, sigHDF5):
		f.Close()
		ds, err := OpenNetCDF4(path)
		if err != nil {
			return nil, err
		}
		ds.Name = name
		return &File{Dataset: ds}, nil
	default:
		f.Close()
		return nil, fmt.Errorf("ncdata: %s is not a NetCDF file", path)
	}
}

// readOnly satisfies cdf.ReaderWriterAt for a file opened for reading.
type readOnly struct {
	*os.File
}

func (readOnly) WriteAt([]byte, int64) (int, error) {
	return 0, fmt.Errorf("ncdata: file is read-only")
}
