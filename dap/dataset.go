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
	"fmt"
	"strings"
)

// Grid is an array together with one map vector per array dimension.
type Grid struct {
	node
	Array *Array
	Maps  []*Array
}

// NewGrid returns a grid named after its array. It panics if the number
// of maps does not match the number of array dimensions.
func NewGrid(array *Array, maps ...*Array) *Grid {
	if len(maps) != array.NumDims() {
		panic(fmt.Errorf("dap: grid %s has %d dimensions but %d maps", array.Name(), array.NumDims(), len(maps)))
	}
	return &Grid{
		node:  node{name: array.Name(), send: true},
		Array: array,
		Maps:  maps,
	}
}

// Type returns GridType.
func (g *Grid) Type() Type { return GridType }

// Constrain applies a hyperslab to dimension i of the grid's array and to
// the corresponding map. On error neither is changed.
func (g *Grid) Constrain(i, start, stride, stop int) error {
	a := g.Array
	if i < 0 || i >= len(a.dims) {
		return a.Constrain(i, start, stride, stop)
	}
	prev, values := a.dims[i], a.values
	if err := a.Constrain(i, start, stride, stop); err != nil {
		return err
	}
	if err := g.Maps[i].Constrain(0, start, stride, stop); err != nil {
		a.dims[i], a.values = prev, values
		return err
	}
	return nil
}

// ResetConstraint selects every element of the array and its maps.
func (g *Grid) ResetConstraint() {
	g.Array.ResetConstraint()
	for _, m := range g.Maps {
		m.ResetConstraint()
	}
}

// SetSend sets the selection flag of the grid and its components.
func (g *Grid) SetSend(s bool) {
	g.send = s
	g.Array.SetSend(s)
	for _, m := range g.Maps {
		m.SetSend(s)
	}
}

// Structure is a named container of variables.
type Structure struct {
	node
	Vars []Variable
}

// NewStructure returns a selected structure holding vars.
func NewStructure(name string, vars ...Variable) *Structure {
	return &Structure{node: node{name: name, send: true}, Vars: vars}
}

// Type returns StructureType.
func (s *Structure) Type() Type { return StructureType }

// SetSend sets the selection flag of the structure and all its members.
func (s *Structure) SetSend(send bool) {
	s.send = send
	for _, v := range s.Vars {
		v.SetSend(send)
	}
}

func (s *Structure) member(name string) Variable {
	for _, v := range s.Vars {
		if v.Name() == name {
			return v
		}
	}
	return nil
}

// Dataset is the root of a variable tree.
type Dataset struct {
	Name  string
	Attrs Attributes
	Vars  []Variable
}

// WalkFunc is called for each variable visited by Walk, with the
// dot-separated path of the variable.
type WalkFunc func(path string, v Variable) error

// Walk visits every variable in the dataset depth first, descending into
// structures after visiting them. Grid components are not visited
// separately. Walk stops at the first error returned by fn.
func (ds *Dataset) Walk(fn WalkFunc) error {
	return walk("", ds.Vars, fn)
}

func walk(prefix string, vars []Variable, fn WalkFunc) error {
	for _, v := range vars {
		path := v.Name()
		if prefix != "" {
			path = prefix + "." + path
		}
		if err := fn(path, v); err != nil {
			return err
		}
		if s, ok := v.(*Structure); ok {
			if err := walk(path, s.Vars, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Var returns the variable at the dot-separated path, or nil if there is
// none. The components of a grid can be addressed as grid.array or
// grid.map.
func (ds *Dataset) Var(path string) Variable {
	v, _ := ds.lookup(strings.Split(path, "."))
	return v
}

// lookup returns the variable at path and its enclosing variables.
func (ds *Dataset) lookup(path []string) (Variable, []Variable) {
	var parents []Variable
	vars := ds.Vars
	for i, name := range path {
		var found Variable
		for _, v := range vars {
			if v.Name() == name {
				found = v
				break
			}
		}
		if found == nil {
			return nil, nil
		}
		if i == len(path)-1 {
			return found, parents
		}
		parents = append(parents, found)
		switch t := found.(type) {
		case *Structure:
			vars = t.Vars
		case *Grid:
			vars = append([]Variable{t.Array}, arrays(t.Maps)...)
		default:
			return nil, nil
		}
	}
	return nil, nil
}

func arrays(a []*Array) []Variable {
	v := make([]Variable, len(a))
	for i, aa := range a {
		v[i] = aa
	}
	return v
}

// SelectAll sets the selection flag of every variable and resets all
// hyperslabs.
func (ds *Dataset) SelectAll(send bool) {
	ds.Walk(func(_ string, v Variable) error {
		v.SetSend(send)
		switch t := v.(type) {
		case *Grid:
			t.ResetConstraint()
		case *Array:
			t.ResetConstraint()
		}
		return nil
	})
}

// Apply parses the constraint expression ce and applies it to the
// dataset.
func (ds *Dataset) Apply(ce string) error {
	c, err := ParseConstraint(ce)
	if err != nil {
		return err
	}
	return c.Evaluate(ds)
}
