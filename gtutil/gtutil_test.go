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

package gtutil

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/dap"
	"github.com/spatialmodel/gridtiff/geotiff"
)

// writeDataset writes a classic NetCDF file with a 2x3x4 sst grid to
// path.
func writeDataset(t *testing.T, path string) {
	t.Helper()
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	h := cdf.NewHeader([]string{"time", "lat", "lon"}, []int{2, 3, 4})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddAttribute("lat", "units", "degrees_north")
	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("lon", "units", "degrees_east")
	h.AddVariable("sst", []string{"time", "lat", "lon"}, []float64{0})
	h.AddAttribute("sst", "units", "degC")
	h.AddAttribute("sst", "_FillValue", []float64{1e20})
	h.Define()
	f, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	sst := make([]float64, 24)
	for i := range sst {
		sst[i] = float64(i)
	}
	sst[2] = 1e20
	data := map[string]interface{}{
		"time": []float64{0, 1},
		"lat":  []float64{10, 9, 8},
		"lon":  []float64{20, 21, 22, 23},
		"sst":  sst,
	}
	for name, d := range data {
		end := f.Header.Lengths(name)
		start := make([]int, len(end))
		if _, err := f.Writer(name, start, end).Write(d); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
}

// setup creates a directory holding sst.nc and a configuration that
// builds rasters in it.
func setup(t *testing.T) (dir string, cfg *gridtiff.Config, cleanup func()) {
	dir, err := ioutil.TempDir("", "gtutil_test")
	if err != nil {
		t.Fatal(err)
	}
	writeDataset(t, filepath.Join(dir, "sst.nc"))
	cfg, err = gridtiff.NewConfig(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	return dir, cfg, func() { os.RemoveAll(dir) }
}

const testCE = "sst[0][0:2][0:3]"

func decodeFile(t *testing.T, path string) *geotiff.Image {
	t.Helper()
	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	img, err := geotiff.Decode(r)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestConvert(t *testing.T) {
	dir, cfg, cleanup := setup(t)
	defer cleanup()
	out := filepath.Join(dir, "sst.tif")
	if err := Convert(context.Background(), cfg, geotiff.Driver{}, filepath.Join(dir, "sst.nc"), out, testCE); err != nil {
		t.Fatal(err)
	}
	img := decodeFile(t, out)
	if img.Width != 4 || img.Height != 3 || img.EPSG != 4326 {
		t.Errorf("image %dx%d EPSG %d", img.Width, img.Height, img.EPSG)
	}
	// 1e20 is a large outlier; the second-largest value is 11.
	if img.Data[2] != 12 || img.NoData != "12" {
		t.Errorf("pixel 2 = %g, no-data %q", img.Data[2], img.NoData)
	}
}

func TestConvertUnconstrained(t *testing.T) {
	dir, cfg, cleanup := setup(t)
	defer cleanup()
	out := filepath.Join(dir, "sst.tif")
	err := Convert(context.Background(), cfg, geotiff.Driver{}, filepath.Join(dir, "sst.nc"), out, "")
	if !errors.Is(err, gridtiff.ErrUnsupportedShape) {
		t.Errorf("have %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed export left an output file")
	}
}

func TestConvertBlob(t *testing.T) {
	dir, cfg, cleanup := setup(t)
	defer cleanup()
	const bucket = "testbucket_convert"
	if err := os.Mkdir(bucket, 0755); err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(bucket)
	b, err := ioutil.ReadFile(filepath.Join(dir, "sst.nc"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(bucket, "sst.nc"), b, 0644); err != nil {
		t.Fatal(err)
	}
	err = Convert(context.Background(), cfg, geotiff.Driver{}, "file://"+bucket+"/sst.nc", "file://"+bucket+"/sst.tif", testCE)
	if err != nil {
		t.Fatal(err)
	}
	if img := decodeFile(t, filepath.Join(bucket, "sst.tif")); img.Width != 4 {
		t.Errorf("width %d", img.Width)
	}
}

func TestInfo(t *testing.T) {
	dir, cfg, cleanup := setup(t)
	defer cleanup()
	var b bytes.Buffer
	if err := Info(context.Background(), &b, cfg, filepath.Join(dir, "sst.nc"), testCE); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"grid sst",
		"* Grid       sst[time=1][lat=3][lon=4]",
		"extent: 4x3 top=10 left=20 bottom=8 right=23",
		`"type":"Polygon"`,
		"no-data: 1e+20 (written as 12)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestInfoTIFF(t *testing.T) {
	dir, cfg, cleanup := setup(t)
	defer cleanup()
	out := filepath.Join(dir, "sst.tif")
	if err := Convert(context.Background(), cfg, geotiff.Driver{}, filepath.Join(dir, "sst.nc"), out, testCE); err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := Info(context.Background(), &b, cfg, out, ""); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"size: 4x3", "EPSG: 4326", "no-data: 12"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("output does not contain %q:\n%s", want, b.String())
		}
	}
}

func TestPreview(t *testing.T) {
	dir, cfg, cleanup := setup(t)
	defer cleanup()
	out := filepath.Join(dir, "sst.png")
	if err := Preview(context.Background(), cfg, filepath.Join(dir, "sst.nc"), out, testCE); err != nil {
		t.Fatal(err)
	}
	r, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if _, err := png.Decode(r); err != nil {
		t.Error(err)
	}
}

func TestDims(t *testing.T) {
	a := dap.NewArray("v", dap.Float64, []dap.Dim{{Name: "y", Size: 2}}, nil)
	if d := dims(a); d != "[y=2]" {
		t.Errorf("have %s", d)
	}
	if d := dims(dap.NewStructure("s")); d != "" {
		t.Errorf("have %s", d)
	}
}

func TestDriver(t *testing.T) {
	if _, err := Driver("GeoTIFF"); err != nil {
		t.Error(err)
	}
	if _, err := Driver("nope"); err == nil {
		t.Error("expected error")
	}
	RegisterDriver("Test", geotiff.Driver{})
	if _, err := Driver("test"); err != nil {
		t.Error(err)
	}
}

func TestNewConfig(t *testing.T) {
	v := viper.New()
	v.Set("TempDir", "/var/tmp/")
	v.Set("DefaultGCS", "NAD27")
	v.Set("LogLevel", "debug")
	cfg, err := NewConfig(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TempDir != "/var/tmp" || cfg.GCS.EPSG != 4267 || cfg.Log == nil {
		t.Errorf("have %+v", cfg)
	}
	v.Set("LogLevel", "loud")
	if _, err := NewConfig(v); err == nil {
		t.Error("expected error for invalid log level")
	}
}
