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
	"testing"

	"github.com/spatialmodel/gridtiff/dap"
)

func gridWithSizes(sizes ...int) *dap.Grid {
	dims := make([]dap.Dim, len(sizes))
	maps := make([]*dap.Array, len(sizes))
	n := 1
	for i, s := range sizes {
		dims[i] = dap.Dim{Name: string(rune('a' + i)), Size: s}
		maps[i] = dap.NewArray(dims[i].Name, dap.Float64, dims[i:i+1], dap.Memory(seq(s)))
		n *= s
	}
	return dap.NewGrid(dap.NewArray("v", dap.Float64, dims, dap.Memory(seq(n))), maps...)
}

func TestEffectivelyTwoD(t *testing.T) {
	tests := []struct {
		sizes []int
		want  bool
	}{
		{sizes: []int{3, 4}, want: true},
		{sizes: []int{1, 4}, want: true},
		{sizes: []int{1, 3, 4}, want: true},
		{sizes: []int{3, 1, 4}, want: true},
		{sizes: []int{2, 3, 4}, want: false},
		{sizes: []int{1, 1, 4}, want: false},
		{sizes: []int{4}, want: false},
		{sizes: []int{1, 1, 3, 4}, want: true},
	}
	for _, test := range tests {
		if got := EffectivelyTwoD(gridWithSizes(test.sizes...)); got != test.want {
			t.Errorf("%v: have %v, want %v", test.sizes, got, test.want)
		}
	}
}

func TestEffectivelyTwoDConstrained(t *testing.T) {
	g := gridWithSizes(2, 3, 4)
	if EffectivelyTwoD(g) {
		t.Fatal("unconstrained grid should be rejected")
	}
	if err := g.Constrain(0, 1, 1, 1); err != nil {
		t.Fatal(err)
	}
	if !EffectivelyTwoD(g) {
		t.Error("single time step should be accepted")
	}
}

func TestEffectivelyTwoDNotGrid(t *testing.T) {
	a := dap.NewArray("v", dap.Float64, []dap.Dim{{Name: "y", Size: 3}, {Name: "x", Size: 4}}, dap.Memory(seq(12)))
	if EffectivelyTwoD(a) {
		t.Error("arrays are not grids")
	}
}
