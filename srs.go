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
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"
)

// SpatialRef is a geographic coordinate system.
type SpatialRef struct {
	// Name is the name the system was looked up by.
	Name string

	// EPSG is the EPSG code of the system.
	EPSG int

	// Proj4 is the PROJ.4 definition of the system, if known.
	Proj4 string
}

func (sr SpatialRef) String() string {
	return fmt.Sprintf("%s (EPSG:%d)", sr.Name, sr.EPSG)
}

// wellKnownGCS holds the coordinate systems that can be referred to by
// name.
var wellKnownGCS = map[string]SpatialRef{
	"WGS84": {Name: "WGS84", EPSG: 4326, Proj4: "+proj=longlat +datum=WGS84 +no_defs"},
	"WGS72": {Name: "WGS72", EPSG: 4322, Proj4: "+proj=longlat +ellps=WGS72 +no_defs"},
	"NAD83": {Name: "NAD83", EPSG: 4269, Proj4: "+proj=longlat +datum=NAD83 +no_defs"},
	"NAD27": {Name: "NAD27", EPSG: 4267, Proj4: "+proj=longlat +ellps=clrk66 +no_defs"},
}

// LookupGCS returns the geographic coordinate system with the given name,
// which is either one of WGS84, WGS72, NAD83 and NAD27 (case-insensitive)
// or an EPSG code in the form "EPSG:4326".
func LookupGCS(name string) (SpatialRef, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if sr, ok := wellKnownGCS[n]; ok {
		if _, err := proj.Parse(sr.Proj4); err != nil {
			return SpatialRef{}, fmt.Errorf("gridtiff: coordinate system %s: %v", name, err)
		}
		return sr, nil
	}
	if strings.HasPrefix(n, "EPSG:") {
		code, err := strconv.Atoi(strings.TrimPrefix(n, "EPSG:"))
		if err != nil || code <= 0 {
			return SpatialRef{}, fmt.Errorf("gridtiff: invalid EPSG code in %q", name)
		}
		for _, sr := range wellKnownGCS {
			if sr.EPSG == code {
				return sr, nil
			}
		}
		return SpatialRef{Name: n, EPSG: code}, nil
	}
	return SpatialRef{}, fmt.Errorf("gridtiff: unknown geographic coordinate system %q", name)
}
