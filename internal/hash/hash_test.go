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

package hash

import (
	"math"
	"testing"
)

func TestRequestKey(t *testing.T) {
	a := Request{Path: "sst.nc", Constraint: "sst[0][0:2][0:3]", GCS: "WGS84"}
	b := a
	if a.Key() != b.Key() {
		t.Error("equal requests should have equal keys")
	}
	b.Constraint = "sst[1][0:2][0:3]"
	if a.Key() == b.Key() {
		t.Error("different constraints should have different keys")
	}
	c := a
	c.GCS = "NAD83"
	if a.Key() == c.Key() {
		t.Error("different coordinate systems should have different keys")
	}
	d := a
	d.ModTime = 1
	if a.Key() == d.Key() {
		t.Error("different modification times should have different keys")
	}
	if len(a.Key()) != 32 {
		t.Errorf("key %s should be 32 hex digits", a.Key())
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestHash(t *testing.T) {
	if h := Hash(stringer("abc")); h != "abc" {
		t.Errorf("stringer: have %s", h)
	}
	if Hash([]float64{math.NaN(), 1}) != Hash([]float64{math.NaN(), 1}) {
		t.Error("hash should be deterministic")
	}
	// No exported fields, so gob fails and spew is used.
	type private struct{ a, b int }
	if Hash(private{1, 2}) != Hash(private{1, 2}) {
		t.Error("spew hash should be deterministic")
	}
	if Hash(private{1, 2}) == Hash(private{1, 3}) {
		t.Error("different values should hash differently")
	}
}
