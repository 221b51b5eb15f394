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

// EffectivelyTwoD reports whether v is a grid whose array has two
// dimensions, or has exactly two dimensions with more than one element
// selected.
func EffectivelyTwoD(v dap.Variable) bool {
	g, ok := v.(*dap.Grid)
	if !ok {
		return false
	}
	if g.Array.NumDims() == 2 {
		return true
	}
	n := 0
	for _, d := range g.Array.Dims() {
		if d.Len() > 1 {
			n++
		}
	}
	return n == 2
}
