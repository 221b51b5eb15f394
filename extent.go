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
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/spatialmodel/gridtiff/dap"
)

// Extent describes the raster that a grid maps onto.
type Extent struct {
	// Width and Height are the number of pixels along the longitude and
	// latitude maps.
	Width, Height int

	// Top and Bottom are the first and last latitude values; Left and
	// Right are the first and last longitude values.
	Top, Left, Bottom, Right float64

	// NoData is the declared no-data value, or "" if there is none.
	NoData string

	// Type is the pixel type of the raster.
	Type dap.Type
}

// HasNoData reports whether a no-data value was declared.
func (e *Extent) HasNoData() bool { return e.NoData != "" }

// NoDataValue parses the declared no-data value.
func (e *Extent) NoDataValue() (float64, error) {
	s := strings.TrimSpace(e.NoData)
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), fmt.Errorf("gridtiff: invalid no-data value %q", e.NoData)
	}
	return v, nil
}

// matches reports whether e and o describe the same raster.
func (e *Extent) matches(o *Extent) bool {
	return e.Width == o.Width && e.Height == o.Height &&
		e.Top == o.Top && e.Left == o.Left &&
		e.Bottom == o.Bottom && e.Right == o.Right
}

func (e *Extent) String() string {
	return fmt.Sprintf("%dx%d top=%g left=%g bottom=%g right=%g", e.Width, e.Height, e.Top, e.Left, e.Bottom, e.Right)
}

// GeoTransform is an affine transform in GDAL order:
// x origin, pixel width, x rotation, y origin, y rotation, pixel height.
type GeoTransform [6]float64

// GeoTransform returns the affine transform for the extent.
//
// Element 0 is the top (first latitude) and element 3 the left (first
// longitude) edge. The pixel sizes pair each latitude delta with the
// raster height and each longitude delta with the raster width, so
// element 1 is (Bottom-Top)/Height and element 5 is (Right-Left)/Width.
// Rotation terms are zero. The x and y roles are crossed relative to a
// north-up GDAL transform; existing consumers of these files expect it.
func (e *Extent) GeoTransform() GeoTransform {
	var gt GeoTransform
	gt[0] = e.Top
	gt[3] = e.Left
	if e.Height > 0 {
		gt[1] = (e.Bottom - e.Top) / float64(e.Height)
	}
	if e.Width > 0 {
		gt[5] = (e.Right - e.Left) / float64(e.Width)
	}
	return gt
}

// Bounds returns the longitude/latitude bounding box of the extent.
func (e *Extent) Bounds() *geom.Bounds {
	b := geom.NewBoundsPoint(geom.Point{X: e.Left, Y: e.Top})
	b.Extend(geom.NewBoundsPoint(geom.Point{X: e.Right, Y: e.Bottom}))
	return b
}

// Footprint returns the corners of the extent as a longitude/latitude
// polygon.
func (e *Extent) Footprint() geom.Polygon {
	b := e.Bounds()
	return geom.Polygon{{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Min.Y},
		{X: b.Max.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Max.Y},
		{X: b.Min.X, Y: b.Min.Y},
	}}
}

// GeoJSON returns the footprint encoded as a GeoJSON geometry.
func (e *Extent) GeoJSON() ([]byte, error) {
	return geojson.Encode(e.Footprint())
}
