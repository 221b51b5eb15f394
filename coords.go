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
	"strings"

	"github.com/spatialmodel/gridtiff/dap"
)

// Units attribute values and name prefixes that identify latitude and
// longitude map vectors.
var (
	latUnits = []string{"degrees_north", "degree_north", "degree_N", "degrees_N"}
	lonUnits = []string{"degrees_east", "degree_east", "degree_E", "degrees_E"}
	latNames = []string{"COADSY", "lat", "Lat", "LAT"}
	lonNames = []string{"COADSX", "lon", "Lon", "LON"}
)

// unitOrNameMatch reports whether units exactly equals one of the
// accepted units or whether name starts with one of the accepted names.
func unitOrNameMatch(units, names []string, varUnits, varName string) bool {
	for _, u := range units {
		if u == varUnits {
			return true
		}
	}
	for _, n := range names {
		if strings.HasPrefix(varName, n) {
			return true
		}
	}
	return false
}

func removeQuotes(s string) string {
	s = strings.TrimPrefix(s, "\"")
	return strings.TrimSuffix(s, "\"")
}

// IsLatitude reports whether the map vector m looks like latitude.
func IsLatitude(m *dap.Array) bool {
	return unitOrNameMatch(latUnits, latNames, removeQuotes(m.Attributes().Get("units")), m.Name())
}

// IsLongitude reports whether the map vector m looks like longitude.
func IsLongitude(m *dap.Array) bool {
	return unitOrNameMatch(lonUnits, lonNames, removeQuotes(m.Attributes().Get("units")), m.Name())
}

// findLatLonMaps returns the indices of the latitude and longitude maps
// of g, or -1 for a map that was not found. Maps are scanned in
// dimension order until both are found. A map may match both tests.
func findLatLonMaps(g *dap.Grid) (lat, lon int) {
	lat, lon = -1, -1
	for i, m := range g.Maps {
		if i >= g.Array.NumDims() || (lat >= 0 && lon >= 0) {
			break
		}
		if lat < 0 && IsLatitude(m) {
			lat = i
		}
		if lon < 0 && IsLongitude(m) {
			lon = i
		}
	}
	return lat, lon
}

// ExtractCoordinates finds the latitude and longitude maps of g, reads
// them through their current constraints, and returns the raster extent
// they describe. The no-data value is taken from the grid's
// missing_value attribute, or from _FillValue if that is absent.
func ExtractCoordinates(g *dap.Grid) (*Extent, error) {
	ext, _, _, err := extractCoordinates(g)
	return ext, err
}

func extractCoordinates(g *dap.Grid) (ext *Extent, lat, lon int, err error) {
	lat, lon = findLatLonMaps(g)
	if lat < 0 || lon < 0 {
		return nil, lat, lon, fmt.Errorf("%w: grid %s", ErrCoordinateNotFound, g.Name())
	}
	latMap, lonMap := g.Maps[lat], g.Maps[lon]
	for _, m := range []*dap.Array{latMap, lonMap} {
		if err := m.Read(); err != nil {
			return nil, lat, lon, fmt.Errorf("%w: grid %s: %v", ErrExport, g.Name(), err)
		}
		if len(m.Float64s()) == 0 {
			return nil, lat, lon, fmt.Errorf("%w: grid %s: map %s is empty", ErrCoordinateNotFound, g.Name(), m.Name())
		}
	}
	latv, lonv := latMap.Float64s(), lonMap.Float64s()
	ext = &Extent{
		Width:  len(lonv),
		Height: len(latv),
		Top:    latv[0],
		Left:   lonv[0],
		Bottom: latv[len(latv)-1],
		Right:  lonv[len(lonv)-1],
		Type:   dap.Float64,
	}
	attrs := g.Attributes()
	if v := removeQuotes(attrs.Get("missing_value")); v != "" {
		ext.NoData = v
	} else if v := removeQuotes(attrs.Get("_FillValue")); v != "" {
		ext.NoData = v
	}
	return ext, lat, lon, nil
}
