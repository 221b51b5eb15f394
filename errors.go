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

import "errors"

var (
	// ErrCoordinateNotFound is returned when the latitude or longitude map
	// of a grid cannot be identified.
	ErrCoordinateNotFound = errors.New("gridtiff: latitude/longitude coordinates not found")

	// ErrUnsupportedShape is returned when the selected variable is not
	// effectively two-dimensional.
	ErrUnsupportedShape = errors.New("gridtiff: variable is not two-dimensional")

	// ErrBandMismatch is returned unless exactly one variable qualifies for
	// export, or when qualifying variables have different extents.
	ErrBandMismatch = errors.New("gridtiff: exactly one band supported")

	// ErrExport is returned when the raster cannot be created or written.
	ErrExport = errors.New("gridtiff: export failed")
)
