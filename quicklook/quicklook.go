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

// Package quicklook renders preview images of exported grids.
package quicklook

import (
	"fmt"
	"io"
	"math"

	"github.com/ctessum/sparse"
	"github.com/spatialmodel/gridtiff"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Preview image size.
var (
	Width  = 6 * vg.Inch
	Height = 4 * vg.Inch
)

// grid presents a [height, width] array as a plotter.GridXYZ with
// coordinates increasing along both axes.
type grid struct {
	data *sparse.DenseArray
	ext  *gridtiff.Extent
	fill float64
}

func (g grid) Dims() (c, r int) { return g.ext.Width, g.ext.Height }

func (g grid) row(r int) int {
	if g.ext.Top > g.ext.Bottom {
		return g.ext.Height - 1 - r
	}
	return r
}

func (g grid) col(c int) int {
	if g.ext.Left > g.ext.Right {
		return g.ext.Width - 1 - c
	}
	return c
}

func (g grid) Z(c, r int) float64 {
	v := g.data.Get(g.row(r), g.col(c))
	if math.IsNaN(v) {
		return g.fill
	}
	return v
}

func (g grid) X(c int) float64 {
	lo, hi := math.Min(g.ext.Left, g.ext.Right), math.Max(g.ext.Left, g.ext.Right)
	return lo + float64(c)*(hi-lo)/float64(g.ext.Width-1)
}

func (g grid) Y(r int) float64 {
	lo, hi := math.Min(g.ext.Top, g.ext.Bottom), math.Max(g.ext.Top, g.ext.Bottom)
	return lo + float64(r)*(hi-lo)/float64(g.ext.Height-1)
}

// Summary holds descriptive statistics of the valid values of a grid.
type Summary struct {
	Min, Max, Mean float64
	N, NaN         int
}

func (s Summary) String() string {
	return fmt.Sprintf("min=%g max=%g mean=%g n=%d nan=%d", s.Min, s.Max, s.Mean, s.N, s.NaN)
}

// Summarize returns statistics of the non-NaN values in data.
func Summarize(data []float64) Summary {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	s := Summary{N: len(valid), NaN: len(data) - len(valid)}
	if len(valid) == 0 {
		s.Min, s.Max, s.Mean = math.NaN(), math.NaN(), math.NaN()
		return s
	}
	s.Min = floats.Min(valid)
	s.Max = floats.Max(valid)
	s.Mean = floats.Sum(valid) / float64(len(valid))
	return s
}

// Render writes a PNG heat map of data, a [height, width] array with the
// given extent, to w.
func Render(w io.Writer, data *sparse.DenseArray, ext *gridtiff.Extent, title string) error {
	if ext.Width < 2 || ext.Height < 2 {
		return fmt.Errorf("quicklook: a %dx%d grid is too small to render", ext.Width, ext.Height)
	}
	if len(data.Elements) != ext.Width*ext.Height {
		return fmt.Errorf("quicklook: %d values do not fill a %dx%d grid", len(data.Elements), ext.Width, ext.Height)
	}
	s := Summarize(data.Elements)
	if s.N == 0 {
		return fmt.Errorf("quicklook: %s has no valid values", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	cm := moreland.ExtendedBlackBody()
	h := plotter.NewHeatMap(grid{data: data, ext: ext, fill: s.Min}, cm.Palette(255))
	p.Add(h)

	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("quicklook: %v", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("quicklook: %v", err)
	}
	return nil
}
