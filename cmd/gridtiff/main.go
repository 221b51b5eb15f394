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

// Command gridtiff exports gridded NetCDF variables as GeoTIFFs.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/gridtiff/gdalsink"
	"github.com/spatialmodel/gridtiff/gtutil"
)

func main() {
	gtutil.RegisterDriver("gdal", gdalsink.Driver{})

	if err := gtutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
