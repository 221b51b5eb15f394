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

// Package gridtiff converts a gridded variable of a dataset, an array
// with latitude and longitude map vectors, into a single-band
// georeferenced raster.
//
// Latitude and longitude maps are found by their units attribute or by
// name, and the raster's corner extents and affine geotransform are
// derived from them. When the variable declares a no-data value, the
// sentinel is moved next to the range of the valid data before writing so
// that a linear grayscale rendering of the raster keeps its contrast.
package gridtiff

// Version gives the version number.
const Version = "0.1.0"
