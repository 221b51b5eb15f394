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

package gridtiff_test

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"testing"

	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/dap"
	"github.com/spatialmodel/gridtiff/geotiff"
)

func exportDataset(nTime int) *dap.Dataset {
	dims := []dap.Dim{{Name: "time", Size: nTime}, {Name: "lat", Size: 3}, {Name: "lon", Size: 4}}
	data := make([]float64, nTime*12)
	for i := range data {
		data[i] = float64(i)
	}
	data[3] = -9.99e33
	a := dap.NewArray("sst", dap.Float64, dims, dap.Memory(data))
	g := dap.NewGrid(a,
		dap.NewArray("time", dap.Float64, dims[:1], dap.Memory(make([]float64, nTime))),
		dap.NewArray("lat", dap.Float64, dims[1:2], dap.Memory([]float64{10, 9, 8})),
		dap.NewArray("lon", dap.Float64, dims[2:], dap.Memory([]float64{20, 21, 22, 23})))
	g.Attributes().Set("missing_value", "-9.99e33")
	return &dap.Dataset{Name: "sst", Vars: []dap.Variable{g}}
}

func tempConfig(t *testing.T) (*gridtiff.Config, func()) {
	dir, err := ioutil.TempDir("", "gridtiff_export")
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := gridtiff.NewConfig(dir+"/", "NAD83")
	if err != nil {
		t.Fatal(err)
	}
	return cfg, func() { os.RemoveAll(dir) }
}

func checkEmpty(t *testing.T, dir string) {
	t.Helper()
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("%d temporary files left behind", len(files))
	}
}

func TestExport(t *testing.T) {
	cfg, cleanup := tempConfig(t)
	defer cleanup()
	var b bytes.Buffer
	if err := gridtiff.Export(cfg, exportDataset(1), &b, geotiff.Driver{}); err != nil {
		t.Fatal(err)
	}
	checkEmpty(t, cfg.TempDir)

	img, err := geotiff.Decode(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 4 || img.Height != 3 {
		t.Errorf("size %dx%d", img.Width, img.Height)
	}
	if img.EPSG != 4269 {
		t.Errorf("EPSG %d", img.EPSG)
	}
	// The smallest valid value is 0, so no-data becomes -1.
	if img.NoData != "-1" {
		t.Errorf("no-data %q", img.NoData)
	}
	want := []float64{0, 1, 2, -1, 4, 5, 6, 7, 8, 9, 10, 11}
	for i, v := range want {
		if img.Data[i] != v {
			t.Errorf("pixel %d = %g, want %g", i, img.Data[i], v)
		}
	}
	if img.GeoTransform[0] != 10 || img.GeoTransform[3] != 20 || img.GeoTransform[5] != 0.75 {
		t.Errorf("geotransform %v", img.GeoTransform)
	}
}

func TestExportFailureCleansUp(t *testing.T) {
	cfg, cleanup := tempConfig(t)
	defer cleanup()
	var b bytes.Buffer
	err := gridtiff.Export(cfg, exportDataset(2), &b, geotiff.Driver{})
	if !errors.Is(err, gridtiff.ErrUnsupportedShape) {
		t.Errorf("have %v, want ErrUnsupportedShape", err)
	}
	if b.Len() != 0 {
		t.Errorf("%d bytes written on failure", b.Len())
	}
	checkEmpty(t, cfg.TempDir)
}

func TestExportBadTempDir(t *testing.T) {
	cfg, err := gridtiff.NewConfig("/does/not/exist", "")
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := gridtiff.Export(cfg, exportDataset(1), &b, geotiff.Driver{}); !errors.Is(err, gridtiff.ErrExport) {
		t.Errorf("have %v, want ErrExport", err)
	}
}
