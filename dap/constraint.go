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
	"net/url"
	"strconv"
	"strings"
)

// Slab is a hyperslab along one dimension. Stop is inclusive.
type Slab struct {
	Start, Stride, Stop int
}

func (s Slab) String() string {
	return fmt.Sprintf("[%d:%d:%d]", s.Start, s.Stride, s.Stop)
}

// Projection selects one variable, optionally restricted to a hyperslab
// along each of its dimensions.
type Projection struct {
	Path  []string
	Slabs []Slab
}

func (p Projection) String() string {
	s := strings.Join(p.Path, ".")
	for _, sl := range p.Slabs {
		s += sl.String()
	}
	return s
}

// Constraint is a parsed constraint expression.
type Constraint struct {
	Projections []Projection
}

func (c *Constraint) String() string {
	s := make([]string, len(c.Projections))
	for i, p := range c.Projections {
		s[i] = p.String()
	}
	return strings.Join(s, ",")
}

// ParseConstraint parses a projection-only constraint expression such as
// "sst[0][10:2:20][0:99],time". Selection clauses and server functions
// are rejected. An empty expression selects every variable.
func ParseConstraint(ce string) (*Constraint, error) {
	ce = strings.TrimPrefix(strings.TrimSpace(ce), "?")
	c := new(Constraint)
	if ce == "" {
		return c, nil
	}
	if i := strings.IndexByte(ce, '&'); i >= 0 {
		return nil, fmt.Errorf("%w: selection clauses are not supported (%q)", ErrConstraint, ce[i:])
	}
	for _, term := range strings.Split(ce, ",") {
		p, err := parseProjection(strings.TrimSpace(term))
		if err != nil {
			return nil, err
		}
		c.Projections = append(c.Projections, p)
	}
	return c, nil
}

func parseProjection(term string) (Projection, error) {
	var p Projection
	if term == "" {
		return p, fmt.Errorf("%w: empty projection", ErrConstraint)
	}
	if strings.ContainsAny(term, "()") {
		return p, fmt.Errorf("%w: server functions are not supported (%q)", ErrConstraint, term)
	}
	name := term
	var slabs string
	if i := strings.IndexByte(term, '['); i >= 0 {
		name, slabs = term[:i], term[i:]
	}
	if name == "" {
		return p, fmt.Errorf("%w: missing variable name in %q", ErrConstraint, term)
	}
	for _, part := range strings.Split(name, ".") {
		n, err := url.PathUnescape(part)
		if err != nil || n == "" {
			return p, fmt.Errorf("%w: invalid variable name %q", ErrConstraint, name)
		}
		p.Path = append(p.Path, n)
	}
	for slabs != "" {
		if slabs[0] != '[' {
			return p, fmt.Errorf("%w: unexpected %q in %q", ErrConstraint, slabs, term)
		}
		end := strings.IndexByte(slabs, ']')
		if end < 0 {
			return p, fmt.Errorf("%w: unterminated hyperslab in %q", ErrConstraint, term)
		}
		s, err := parseSlab(slabs[1:end])
		if err != nil {
			return p, fmt.Errorf("%w in %q", err, term)
		}
		p.Slabs = append(p.Slabs, s)
		slabs = slabs[end+1:]
	}
	return p, nil
}

func parseSlab(s string) (Slab, error) {
	fields := strings.Split(s, ":")
	idx := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || v < 0 {
			return Slab{}, fmt.Errorf("%w: invalid index %q", ErrConstraint, f)
		}
		idx[i] = v
	}
	switch len(idx) {
	case 1:
		return Slab{Start: idx[0], Stride: 1, Stop: idx[0]}, nil
	case 2:
		return Slab{Start: idx[0], Stride: 1, Stop: idx[1]}, nil
	case 3:
		if idx[1] == 0 {
			return Slab{}, fmt.Errorf("%w: zero stride", ErrConstraint)
		}
		return Slab{Start: idx[0], Stride: idx[1], Stop: idx[2]}, nil
	default:
		return Slab{}, fmt.Errorf("%w: malformed hyperslab [%s]", ErrConstraint, s)
	}
}

// Evaluate applies the constraint to ds. With no projections every
// variable is selected; otherwise only the projected variables (and the
// structures that contain them) are selected.
func (c *Constraint) Evaluate(ds *Dataset) error {
	if len(c.Projections) == 0 {
		ds.SelectAll(true)
		return nil
	}
	ds.SelectAll(false)
	for _, p := range c.Projections {
		v, parents := ds.lookup(p.Path)
		if v == nil {
			return fmt.Errorf("%w: no variable %q in dataset %s", ErrConstraint, strings.Join(p.Path, "."), ds.Name)
		}
		v.SetSend(true)
		for _, parent := range parents {
			markSelected(parent)
		}
		if len(p.Slabs) == 0 {
			continue
		}
		var constrain func(i, start, stride, stop int) error
		var ndims int
		switch t := v.(type) {
		case *Grid:
			constrain, ndims = t.Constrain, t.Array.NumDims()
		case *Array:
			constrain, ndims = t.Constrain, t.NumDims()
		default:
			return fmt.Errorf("%w: hyperslab applied to %s variable %s", ErrConstraint, v.Type(), v.Name())
		}
		if len(p.Slabs) != ndims {
			return fmt.Errorf("%w: %s has %d dimensions but %d hyperslabs were given", ErrConstraint, v.Name(), ndims, len(p.Slabs))
		}
		for i, s := range p.Slabs {
			if err := constrain(i, s.Start, s.Stride, s.Stop); err != nil {
				return err
			}
		}
	}
	return nil
}

// markSelected sets the flag of a structure without selecting its other
// members. A grid whose component was projected stays unselected, so the
// component is sent as a plain array.
func markSelected(v Variable) {
	if s, ok := v.(*Structure); ok {
		s.send = true
	}
}
