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
	"errors"
	"fmt"

	"github.com/spatialmodel/gridtiff/dap"
)

// newGrid returns a grid over time[1], lat and lon holding data in
// row-major order.
func newGrid(name string, lat, lon, data []float64) *dap.Grid {
	dims := []dap.Dim{{Name: "time", Size: 1}, {Name: "lat", Size: len(lat)}, {Name: "lon", Size: len(lon)}}
	a := dap.NewArray(name, dap.Float64, dims, dap.Memory(data))
	latA := dap.NewArray("lat", dap.Float64, dims[1:2], dap.Memory(lat))
	latA.Attributes().Set("units", "degrees_north")
	lonA := dap.NewArray("lon", dap.Float64, dims[2:3], dap.Memory(lon))
	lonA.Attributes().Set("units", "degrees_east")
	return dap.NewGrid(a, dap.NewArray("time", dap.Float64, dims[0:1], dap.Memory([]float64{0})), latA, lonA)
}

func seq(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i)
	}
	return v
}

var errInjected = errors.New("injected failure")

// countingDriver records every sink it creates and can fail at a
// chosen step.
type countingDriver struct {
	failCreate bool
	failAt     string
	sinks      []*countingSink
}

func (d *countingDriver) Create(path string, width, height, bands int, dtype dap.Type, options ...string) (Sink, error) {
	if d.failCreate {
		return nil, errInjected
	}
	s := &countingSink{path: path, width: width, height: height, bands: bands, failAt: d.failAt, noData: "unset"}
	d.sinks = append(d.sinks, s)
	return s, nil
}

// open returns the number of sinks that have not been closed.
func (d *countingDriver) open() int {
	n := 0
	for _, s := range d.sinks {
		if s.closed == 0 {
			n++
		}
	}
	return n
}

type countingSink struct {
	path                 string
	width, height, bands int
	failAt               string

	gt     GeoTransform
	sr     SpatialRef
	noData string
	data   []float64
	closed int
}

func (s *countingSink) fail(step string) error {
	if s.failAt == step {
		return errInjected
	}
	return nil
}

func (s *countingSink) SetGeoTransform(gt GeoTransform) error {
	s.gt = gt
	return s.fail("geotransform")
}

func (s *countingSink) SetSpatialRef(sr SpatialRef) error {
	s.sr = sr
	return s.fail("srs")
}

func (s *countingSink) SetNoData(v float64) error {
	s.noData = fmt.Sprint(v)
	return s.fail("nodata")
}

func (s *countingSink) WriteBand(band int, data []float64, width, height int) error {
	if err := s.fail("write"); err != nil {
		return err
	}
	if band != 1 || width != s.width || height != s.height || len(data) != width*height {
		return fmt.Errorf("bad write: band %d %dx%d len %d", band, width, height, len(data))
	}
	s.data = append([]float64(nil), data...)
	return nil
}

func (s *countingSink) Close() error {
	s.closed++
	return s.fail("close")
}
