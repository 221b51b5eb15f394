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

package gridtiff

import (
	"fmt"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/gridtiff/dap"
)

// Adapter exports one dataset variable as a raster band.
type Adapter interface {
	Name() string
	Variable() dap.Variable

	// ExtractCoordinates returns the extent of the raster.
	ExtractCoordinates() (*Extent, error)

	// SetProjection stamps the spatial reference on s.
	SetProjection(s Sink, sr SpatialRef) error

	// Data returns the selected values as a [height, width] array. The
	// caller owns the returned array.
	Data() (*sparse.DenseArray, error)
}

// newAdapter returns an adapter for v, or false if v cannot be
// exported. Only grids can be exported.
func newAdapter(v dap.Variable) (Adapter, bool) {
	switch t := v.(type) {
	case *dap.Grid:
		return &gridAdapter{grid: t, lat: -1, lon: -1}, true
	default:
		return nil, false
	}
}

type gridAdapter struct {
	grid     *dap.Grid
	lat, lon int
	ext      *Extent
}

func (a *gridAdapter) Name() string           { return a.grid.Name() }
func (a *gridAdapter) Variable() dap.Variable { return a.grid }

func (a *gridAdapter) ExtractCoordinates() (*Extent, error) {
	ext, lat, lon, err := extractCoordinates(a.grid)
	if err != nil {
		return nil, err
	}
	a.ext, a.lat, a.lon = ext, lat, lon
	return ext, nil
}

func (a *gridAdapter) SetProjection(s Sink, sr SpatialRef) error {
	return s.SetSpatialRef(sr)
}

// Data reads the grid's array. When the longitude dimension precedes the
// latitude dimension the values are transposed so that rows follow
// latitude.
func (a *gridAdapter) Data() (*sparse.DenseArray, error) {
	if a.ext == nil {
		if _, err := a.ExtractCoordinates(); err != nil {
			return nil, err
		}
	}
	arr := a.grid.Array
	if err := arr.Read(); err != nil {
		return nil, err
	}
	v := arr.Float64s()
	w, h := a.ext.Width, a.ext.Height
	if len(v) != w*h {
		return nil, fmt.Errorf("gridtiff: %s has %d values but its maps describe %dx%d pixels", a.Name(), len(v), w, h)
	}
	out := sparse.ZerosDense(h, w)
	if a.lat <= a.lon {
		copy(out.Elements, v)
		return out, nil
	}
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			out.Elements[j*w+i] = v[i*h+j]
		}
	}
	return out, nil
}
