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

package quicklook

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/gridtiff"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{1, math.NaN(), 3, 2})
	if s.N != 3 || s.NaN != 1 {
		t.Errorf("counts: %v", s)
	}
	if s.Min != 1 || s.Max != 3 || !scalar.EqualWithinAbsOrRel(s.Mean, 2, 1e-12, 1e-12) {
		t.Errorf("stats: %v", s)
	}
	if s := Summarize([]float64{math.NaN()}); !math.IsNaN(s.Mean) {
		t.Errorf("all-NaN mean should be NaN: %v", s)
	}
}

func TestGrid(t *testing.T) {
	data := sparse.ZerosDense(3, 4)
	for i := range data.Elements {
		data.Elements[i] = float64(i)
	}
	ext := &gridtiff.Extent{Width: 4, Height: 3, Top: 10, Bottom: 8, Left: 20, Right: 23}
	g := grid{data: data, ext: ext}
	if c, r := g.Dims(); c != 4 || r != 3 {
		t.Errorf("dims %d, %d", c, r)
	}
	// Latitude decreases down the rows, so the first plot row is the
	// last data row.
	if v := g.Z(0, 0); v != 8 {
		t.Errorf("Z(0, 0) = %g", v)
	}
	if y := g.Y(0); y != 8 {
		t.Errorf("Y(0) = %g", y)
	}
	if x := g.X(3); x != 23 {
		t.Errorf("X(3) = %g", x)
	}
}

func TestRender(t *testing.T) {
	data := sparse.ZerosDense(3, 4)
	for i := range data.Elements {
		data.Elements[i] = float64(i)
	}
	ext := &gridtiff.Extent{Width: 4, Height: 3, Top: 10, Bottom: 8, Left: 20, Right: 23}
	var b bytes.Buffer
	if err := Render(&b, data, ext, "test"); err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(&b); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}

	small := &gridtiff.Extent{Width: 1, Height: 3}
	if err := Render(&b, sparse.ZerosDense(3, 1), small, "small"); err == nil {
		t.Error("a single column should not render")
	}
}
