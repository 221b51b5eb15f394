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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridtiff/dap"
)

// Transformer writes the selected grid of a dataset to a raster.
type Transformer struct {
	Config *Config
	Driver Driver

	// Polarity chooses the rescaling polarity for a no-data value. If nil,
	// PolarityOf is used.
	Polarity func(noData float64) Polarity
}

// NewTransformer returns a Transformer that writes rasters with d.
func NewTransformer(cfg *Config, d Driver) *Transformer {
	return &Transformer{Config: cfg, Driver: d}
}

// transformState accumulates the variables found while walking a
// dataset.
type transformState struct {
	extent   *Extent
	adapters []Adapter
}

// add records a qualifying variable. The first variable sets the extent;
// later ones must match it.
func (s *transformState) add(a Adapter, ext *Extent) error {
	if s.extent != nil && !s.extent.matches(ext) {
		return fmt.Errorf("%w: %s (%v) does not match the extent of %s (%v)",
			ErrBandMismatch, a.Name(), ext, s.adapters[0].Name(), s.extent)
	}
	if s.extent == nil {
		s.extent = ext
	}
	s.adapters = append(s.adapters, a)
	return nil
}

// Select walks the selected variables of ds and returns the adapter and
// extent of the single grid that can be exported.
func (t *Transformer) Select(ds *dap.Dataset) (Adapter, *Extent, error) {
	log := t.Config.Logger().WithField("dataset", ds.Name)
	var st transformState
	err := ds.Walk(func(path string, v dap.Variable) error {
		if !v.Send() {
			return nil
		}
		a, ok := newAdapter(v)
		if !ok {
			return nil
		}
		ext, err := a.ExtractCoordinates()
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"variable": path,
			"extent":   ext.String(),
			"nodata":   ext.NoData,
		}).Debug("found variable")
		return st.add(a, ext)
	})
	if err != nil {
		return nil, nil, err
	}
	log.WithField("bands", len(st.adapters)).Debug("number of bands")
	if len(st.adapters) != 1 {
		return nil, nil, fmt.Errorf("%w: found %d grids with latitude/longitude maps in %s", ErrBandMismatch, len(st.adapters), ds.Name)
	}
	a := st.adapters[0]
	if !EffectivelyTwoD(a.Variable()) {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedShape, a.Name())
	}
	return a, st.extent, nil
}

// Data reads the values of a and moves its no-data samples next to the
// valid range. It returns the values and the no-data value to record,
// with ok false if there is none. The recorded value is the replacement
// only if some samples were replaced; otherwise it is the declared value.
// A NaN no-data value is recorded as is.
func (t *Transformer) Data(a Adapter, ext *Extent) (data *sparse.DenseArray, noData float64, ok bool, err error) {
	data, err = a.Data()
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: reading %s: %v", ErrExport, a.Name(), err)
	}
	if !ext.HasNoData() {
		return data, 0, false, nil
	}
	nd, err := ext.NoDataValue()
	if err != nil {
		t.Config.Logger().WithError(err).Warn("not rescaling no-data values")
		return data, 0, false, nil
	}
	if math.IsNaN(nd) {
		return data, nd, true, nil
	}
	nd = storagePrecision(a.Variable(), nd)
	p := PolarityOf(nd)
	if t.Polarity != nil {
		p = t.Polarity(nd)
	}
	if repl, n := Rescale(data.Elements, nd, p); n > 0 {
		t.Config.Logger().WithFields(logrus.Fields{
			"nodata":      nd,
			"replacement": repl,
			"polarity":    p,
			"samples":     n,
		}).Debug("rescaled no-data values")
		nd = repl
	}
	return data, nd, true, nil
}

// Transform writes the single selected grid of ds to a raster at dest.
func (t *Transformer) Transform(ds *dap.Dataset, dest string) (err error) {
	a, ext, err := t.Select(ds)
	if err != nil {
		return err
	}
	log := t.Config.Logger().WithField("variable", a.Name())
	gt := ext.GeoTransform()
	log.WithField("geotransform", gt).Debug("computed geotransform")

	sink, err := t.Driver.Create(dest, ext.Width, ext.Height, 1, ext.Type, "PHOTOMETRIC=MINISBLACK")
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrExport, dest, err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: closing %s: %v", ErrExport, dest, cerr)
		}
	}()
	if err := sink.SetGeoTransform(gt); err != nil {
		return fmt.Errorf("%w: setting geotransform: %v", ErrExport, err)
	}
	if err := a.SetProjection(sink, t.Config.GCS); err != nil {
		return fmt.Errorf("%w: setting projection %v: %v", ErrExport, t.Config.GCS, err)
	}
	data, nd, ok, err := t.Data(a, ext)
	if err != nil {
		return err
	}
	if ok {
		if err := sink.SetNoData(nd); err != nil {
			return fmt.Errorf("%w: setting no-data value: %v", ErrExport, err)
		}
	}
	if err := sink.WriteBand(1, data.Elements, ext.Width, ext.Height); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrExport, a.Name(), err)
	}
	log.WithField("file", dest).Debug("wrote raster")
	return nil
}

// storagePrecision rounds x to the precision the samples of v are stored
// with, so that a no-data value parsed from text compares equal to the
// samples that hold it.
func storagePrecision(v dap.Variable, x float64) float64 {
	if g, ok := v.(*dap.Grid); ok && g.Array.Elem == dap.Float32 {
		return float64(float32(x))
	}
	return x
}
