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

import "github.com/spatialmodel/gridtiff/dap"

// Driver creates raster files.
type Driver interface {
	// Create creates a raster at path with the given size, number of bands
	// and pixel type. Options are KEY=VALUE creation options.
	Create(path string, width, height, bands int, dtype dap.Type, options ...string) (Sink, error)
}

// Sink is a raster being written. Close must be called exactly once.
type Sink interface {
	SetGeoTransform(gt GeoTransform) error
	SetSpatialRef(sr SpatialRef) error
	SetNoData(v float64) error

	// WriteBand writes a width x height row-major buffer to band,
	// counting from 1.
	WriteBand(band int, data []float64, width, height int) error

	Close() error
}
