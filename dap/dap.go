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

// Package dap holds an in-memory model of a DAP-style dataset: a tree of
// named variables (arrays, grids and structures) with attribute tables,
// per-variable selection flags and hyperslab constraints on array
// dimensions.
package dap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConstraint is returned when a constraint expression cannot be parsed
// or cannot be applied to a dataset.
var ErrConstraint = errors.New("dap: invalid constraint")

// Type is the type tag of a variable or array element.
type Type int

// Scalar element types followed by the constructor types.
const (
	Byte Type = iota
	Int16
	Int32
	Float32
	Float64
	String
	ArrayType
	GridType
	StructureType
)

func (t Type) String() string {
	switch t {
	case Byte:
		return "Byte"
	case Int16:
		return "Int16"
	case Int32:
		return "Int32"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	case String:
		return "String"
	case ArrayType:
		return "Array"
	case GridType:
		return "Grid"
	case StructureType:
		return "Structure"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Variable is a node in the dataset tree.
type Variable interface {
	Name() string
	Type() Type
	Attributes() *Attributes

	// Send reports whether the variable is selected for output.
	Send() bool
	SetSend(bool)
}

// Attributes is an attribute table that remembers insertion order.
type Attributes struct {
	keys []string
	vals map[string]string
}

// Set adds or replaces attribute k.
func (a *Attributes) Set(k, v string) {
	if a.vals == nil {
		a.vals = make(map[string]string)
	}
	if _, ok := a.vals[k]; !ok {
		a.keys = append(a.keys, k)
	}
	a.vals[k] = v
}

// Get returns the value of attribute k, or "" if it is not present.
func (a *Attributes) Get(k string) string {
	return a.vals[k]
}

// Lookup returns the value of attribute k and whether it is present.
func (a *Attributes) Lookup(k string) (string, bool) {
	v, ok := a.vals[k]
	return v, ok
}

// Keys returns the attribute names in insertion order.
func (a *Attributes) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int { return len(a.keys) }

func (a *Attributes) String() string {
	s := make([]string, len(a.keys))
	for i, k := range a.keys {
		s[i] = fmt.Sprintf("%s=%s", k, a.vals[k])
	}
	return "{" + strings.Join(s, ", ") + "}"
}

// node holds the fields common to every variable.
type node struct {
	name  string
	attrs Attributes
	send  bool
}

func (n *node) Name() string            { return n.name }
func (n *node) Attributes() *Attributes { return &n.attrs }
func (n *node) Send() bool              { return n.send }
func (n *node) SetSend(s bool)          { n.send = s }
