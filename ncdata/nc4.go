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
	"reflect"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/spatialmodel/gridtiff/dap"
)

// OpenNetCDF4 loads the NetCDF file at path, which may be in any format
// supported by go-native-netcdf (including NetCDF-4/HDF5). All variable
// data is read into memory and the file is closed before returning.
// Sub-groups become structures. Non-numeric variables are skipped.
func OpenNetCDF4(path string) (*dap.Dataset, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ncdata: opening %s: %v", path, err)
	}
	defer g.Close()

	ds := &dap.Dataset{Name: path}
	attrs := g.Attributes()
	for _, k := range attrs.Keys() {
		v, _ := attrs.Get(k)
		ds.Attrs.Set(k, attrString(v))
	}
	vars, err := readGroup(g, nil)
	if err != nil {
		return nil, fmt.Errorf("ncdata: %s: %v", path, err)
	}
	ds.Vars = vars
	return ds, nil
}

func readGroup(g api.Group, coords map[string]*variable) ([]dap.Variable, error) {
	var vars []variable
	for _, name := range g.ListVariables() {
		v, err := g.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("reading variable %s: %v", name, err)
		}
		values, sizes, elem, ok := flatten(v.Values)
		if !ok {
			continue
		}
		if len(v.Dimensions) != len(sizes) {
			// Scalars and variables without named dimensions.
			if len(v.Dimensions) != 0 || len(values) != 1 {
				continue
			}
			sizes = nil
		}
		nv := variable{
			name:  name,
			dims:  v.Dimensions,
			sizes: sizes,
			elem:  elem,
			src:   dap.Memory(values),
		}
		for _, k := range v.Attributes.Keys() {
			a, _ := v.Attributes.Get(k)
			nv.attrs = append(nv.attrs, [2]string{k, attrString(a)})
		}
		vars = append(vars, nv)
	}

	inherited := make(map[string]*variable, len(coords))
	for k, v := range coords {
		inherited[k] = v
	}
	for i := range vars {
		if vars[i].isCoordinate() {
			inherited[vars[i].name] = &vars[i]
		}
	}
	out := build(vars, coords)
	for _, name := range g.ListSubgroups() {
		sub, err := g.GetGroup(name)
		if err != nil {
			return nil, fmt.Errorf("opening group %s: %v", name, err)
		}
		members, err := readGroup(sub, inherited)
		sub.Close()
		if err != nil {
			return nil, fmt.Errorf("group %s: %v", name, err)
		}
		out = append(out, dap.NewStructure(name, members...))
	}
	return out, nil
}

// flatten converts nested slices of numbers into row-major float64 values
// and the size of each nesting level. It reports false for non-numeric
// or ragged values.
func flatten(values interface{}) ([]float64, []int, dap.Type, bool) {
	if values == nil {
		return nil, nil, 0, false
	}
	rv := reflect.ValueOf(values)
	var sizes []int
	t := rv.Type()
	for t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	elem, ok := kindType(t.Kind())
	if !ok {
		return nil, nil, 0, false
	}
	for v := rv; v.Kind() == reflect.Slice; {
		sizes = append(sizes, v.Len())
		if v.Len() == 0 {
			break
		}
		v = v.Index(0)
	}
	var out []float64
	var walk func(v reflect.Value, depth int) bool
	walk = func(v reflect.Value, depth int) bool {
		if v.Kind() != reflect.Slice {
			out = append(out, toFloat(v))
			return true
		}
		if depth >= len(sizes) || v.Len() != sizes[depth] {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if !walk(v.Index(i), depth+1) {
				return false
			}
		}
		return true
	}
	if !walk(rv, 0) {
		return nil, nil, 0, false
	}
	return out, sizes, elem, true
}

func kindType(k reflect.Kind) (dap.Type, bool) {
	switch k {
	case reflect.Int8, reflect.Uint8:
		return dap.Byte, true
	case reflect.Int16, reflect.Uint16:
		return dap.Int16, true
	case reflect.Int32, reflect.Uint32, reflect.Int64, reflect.Uint64, reflect.Int:
		return dap.Int32, true
	case reflect.Float32:
		return dap.Float32, true
	case reflect.Float64:
		return dap.Float64, true
	default:
		return 0, false
	}
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return float64(v.Int())
	}
}
