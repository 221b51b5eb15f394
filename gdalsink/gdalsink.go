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

// Package gdalsink writes rasters through GDAL's GeoTIFF driver.
package gdalsink

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/dap"
)

var register sync.Once

// Driver creates GeoTIFF files with GDAL.
type Driver struct{}

// Create creates a GeoTIFF at path. Options are passed to GDAL as
// creation options.
func (Driver) Create(path string, width, height, bands int, dtype dap.Type, options ...string) (gridtiff.Sink, error) {
	register.Do(godal.RegisterAll)
	dt, err := dataType(dtype)
	if err != nil {
		return nil, err
	}
	ds, err := godal.Create(godal.GTiff, path, bands, dt, width, height, godal.CreationOption(options...))
	if err != nil {
		return nil, fmt.Errorf("gdalsink: creating %s: %v", path, err)
	}
	return &sink{ds: ds}, nil
}

func dataType(t dap.Type) (godal.DataType, error) {
	switch t {
	case dap.Byte:
		return godal.Byte, nil
	case dap.Int16:
		return godal.Int16, nil
	case dap.Int32:
		return godal.Int32, nil
	case dap.Float32:
		return godal.Float32, nil
	case dap.Float64:
		return godal.Float64, nil
	default:
		return godal.Unknown, fmt.Errorf("gdalsink: unsupported pixel type %v", t)
	}
}

type sink struct {
	ds *godal.Dataset
}

func (s *sink) SetGeoTransform(gt gridtiff.GeoTransform) error {
	return s.ds.SetGeoTransform(gt)
}

func (s *sink) SetSpatialRef(sr gridtiff.SpatialRef) error {
	ref, err := godal.NewSpatialRefFromEPSG(sr.EPSG)
	if err != nil {
		if sr.Proj4 == "" {
			return fmt.Errorf("gdalsink: %v: %v", sr, err)
		}
		if ref, err = godal.NewSpatialRefFromProj4(sr.Proj4); err != nil {
			return fmt.Errorf("gdalsink: %v: %v", sr, err)
		}
	}
	defer ref.Close()
	return s.ds.SetSpatialRef(ref)
}

func (s *sink) SetNoData(v float64) error {
	return s.ds.SetNoData(v)
}

func (s *sink) WriteBand(band int, data []float64, width, height int) error {
	bands := s.ds.Bands()
	if band < 1 || band > len(bands) {
		return fmt.Errorf("gdalsink: band %d does not exist", band)
	}
	return bands[band-1].Write(0, 0, data, width, height)
}

func (s *sink) Close() error {
	return s.ds.Close()
}
