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

package dap

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseConstraint(t *testing.T) {
	tests := []struct {
		ce   string
		want []Projection
	}{
		{ce: "", want: nil},
		{ce: "sst", want: []Projection{{Path: []string{"sst"}}}},
		{ce: "?aux.depth", want: []Projection{{Path: []string{"aux", "depth"}}}},
		{
			ce: "sst[1][0:2][0:2:3],time",
			want: []Projection{
				{Path: []string{"sst"}, Slabs: []Slab{{1, 1, 1}, {0, 1, 2}, {0, 2, 3}}},
				{Path: []string{"time"}},
			},
		},
		{ce: "sea%20level", want: []Projection{{Path: []string{"sea level"}}}},
	}
	for _, test := range tests {
		t.Run(test.ce, func(t *testing.T) {
			c, err := ParseConstraint(test.ce)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(c.Projections, test.want) {
				t.Errorf("want %v, got %v", test.want, c.Projections)
			}
		})
	}
}

func TestParseConstraintErrors(t *testing.T) {
	for _, ce := range []string{
		"sst&time>0",
		"geogrid(sst,10,20,0,30)",
		"sst[0",
		"sst[a]",
		"sst[1:2:3:4]",
		"sst[0:0:3]",
		"sst,,time",
		"[0]",
		"sst[0]x",
	} {
		if _, err := ParseConstraint(ce); !errors.Is(err, ErrConstraint) {
			t.Errorf("%q: want ErrConstraint, got %v", ce, err)
		}
	}
}

func TestEvaluate(t *testing.T) {
	ds := testDataset()
	if err := ds.Apply("aux.depth[1:3]"); err != nil {
		t.Fatal(err)
	}
	sst := ds.Vars[0].(*Grid)
	aux := ds.Vars[1].(*Structure)
	depth := aux.Vars[0].(*Array)
	if sst.Send() {
		t.Error("sst should not be selected")
	}
	if !aux.Send() || !depth.Send() {
		t.Error("aux.depth and its parent should be selected")
	}
	if n := depth.Length(); n != 3 {
		t.Errorf("depth length: want 3, got %d", n)
	}

	if err := ds.Apply("sst[0][0:1][1:3]"); err != nil {
		t.Fatal(err)
	}
	if !sst.Send() || aux.Send() {
		t.Error("only sst should be selected")
	}
	if n := depth.Length(); n != 5 {
		t.Errorf("depth constraint should be reset, length %d", n)
	}
	var sizes []int
	for _, d := range sst.Array.Dims() {
		sizes = append(sizes, d.Len())
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(sizes, want) {
		t.Errorf("sst sizes: want %v, got %v", want, sizes)
	}
	if n := sst.Maps[2].Length(); n != 3 {
		t.Errorf("lon map length: want 3, got %d", n)
	}

	if err := ds.Apply(""); err != nil {
		t.Fatal(err)
	}
	if !sst.Send() || !depth.Send() || sst.Array.Length() != 24 {
		t.Error("empty constraint should select everything")
	}
}

func TestEvaluateErrors(t *testing.T) {
	for _, ce := range []string{
		"nope",
		"sst[0][0]",
		"sst[2][0][0]",
		"aux[0]",
		"aux.depth[0:5]",
	} {
		ds := testDataset()
		if err := ds.Apply(ce); !errors.Is(err, ErrConstraint) {
			t.Errorf("%q: want ErrConstraint, got %v", ce, err)
		}
	}
}
