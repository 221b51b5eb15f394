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
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/cloud"
	"github.com/spatialmodel/gridtiff/dap"
	"github.com/spatialmodel/gridtiff/geotiff"
	"github.com/spatialmodel/gridtiff/ncdata"
	"github.com/spatialmodel/gridtiff/quicklook"
)

// maybeDownload returns a local copy of path. If path refers to blob
// storage it is downloaded into a new directory under tempDir, which
// cleanup removes.
func maybeDownload(ctx context.Context, path, tempDir string) (local string, cleanup func(), err error) {
	if !cloud.IsBlob(path) {
		return path, func() {}, nil
	}
	dir, err := ioutil.TempDir(tempDir, "gridtiff_input")
	if err != nil {
		return "", nil, fmt.Errorf("gridtiff: creating download directory: %v", err)
	}
	local, err = cloud.Download(ctx, path, dir)
	if err != nil {
		os.RemoveAll(dir)
		return "", nil, err
	}
	return local, func() { os.RemoveAll(dir) }, nil
}

// openDataset opens the NetCDF file at path and applies the constraint
// expression ce to it. The returned function releases the file.
func openDataset(ctx context.Context, cfg *gridtiff.Config, path, ce string) (*ncdata.File, func(), error) {
	local, cleanup, err := maybeDownload(ctx, path, cfg.TempDir)
	if err != nil {
		return nil, nil, err
	}
	f, err := ncdata.Open(local)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := f.Apply(ce); err != nil {
		f.Close()
		cleanup()
		return nil, nil, err
	}
	return f, func() {
		f.Close()
		cleanup()
	}, nil
}

// Convert exports the grid of the NetCDF file in selected by ce as a
// GeoTIFF at out, using driver d.
func Convert(ctx context.Context, cfg *gridtiff.Config, d gridtiff.Driver, in, out, ce string) error {
	f, closeFile, err := openDataset(ctx, cfg, in, ce)
	if err != nil {
		return err
	}
	defer closeFile()

	u := &cloud.Uploader{Log: cfg.Logger()}
	local := u.Local(out)
	w, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("gridtiff: creating output file: %v", err)
	}
	if err := gridtiff.Export(cfg, f.Dataset, w, d); err != nil {
		w.Close()
		os.Remove(local)
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gridtiff: closing output file: %v", err)
	}
	if err := u.Flush(ctx); err != nil {
		return err
	}
	cfg.Logger().WithField("output", out).Info("exported")
	return nil
}

// Preview writes a heat map of the grid of in selected by ce, with its
// no-data values rescaled, as a PNG image at out.
func Preview(ctx context.Context, cfg *gridtiff.Config, in, out, ce string) error {
	f, closeFile, err := openDataset(ctx, cfg, in, ce)
	if err != nil {
		return err
	}
	defer closeFile()

	t := gridtiff.NewTransformer(cfg, nil)
	a, ext, err := t.Select(f.Dataset)
	if err != nil {
		return err
	}
	data, _, _, err := t.Data(a, ext)
	if err != nil {
		return err
	}
	u := &cloud.Uploader{Log: cfg.Logger()}
	local := u.Local(out)
	w, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("gridtiff: creating preview file: %v", err)
	}
	title := a.Name()
	if units := a.Variable().Attributes().Get("units"); units != "" {
		title = fmt.Sprintf("%s (%s)", title, strings.Trim(units, "\""))
	}
	if err := quicklook.Render(w, data, ext, title); err != nil {
		w.Close()
		os.Remove(local)
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gridtiff: closing preview file: %v", err)
	}
	return u.Flush(ctx)
}

// Info writes a description of in to w. GeoTIFFs (files ending in .tif
// or .tiff) are described by their georeferencing; NetCDF files by their
// variables and the grid selected by ce.
func Info(ctx context.Context, w io.Writer, cfg *gridtiff.Config, in, ce string) error {
	switch strings.ToLower(filepath.Ext(in)) {
	case ".tif", ".tiff":
		return tiffInfo(ctx, w, cfg, in)
	}
	f, closeFile, err := openDataset(ctx, cfg, in, ce)
	if err != nil {
		return err
	}
	defer closeFile()

	fmt.Fprintf(w, "dataset %s\n", f.Name)
	f.Walk(func(path string, v dap.Variable) error {
		mark := " "
		if v.Send() {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-10s %s%s\n", mark, v.Type(), path, dims(v))
		return nil
	})

	t := gridtiff.NewTransformer(cfg, nil)
	a, ext, err := t.Select(f.Dataset)
	if err != nil {
		return err
	}
	data, nd, ok, err := t.Data(a, ext)
	if err != nil {
		return err
	}
	fp, err := ext.GeoJSON()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "grid %s\n", a.Name())
	fmt.Fprintf(w, "extent: %v\n", ext)
	fmt.Fprintf(w, "geotransform: %v\n", ext.GeoTransform())
	fmt.Fprintf(w, "footprint: %s\n", fp)
	if ok {
		fmt.Fprintf(w, "no-data: %s (written as %g)\n", ext.NoData, nd)
	}
	fmt.Fprintf(w, "values: %v\n", quicklook.Summarize(data.Elements))
	return nil
}

func dims(v dap.Variable) string {
	var a *dap.Array
	switch t := v.(type) {
	case *dap.Array:
		a = t
	case *dap.Grid:
		a = t.Array
	default:
		return ""
	}
	var s string
	for _, d := range a.Dims() {
		s += fmt.Sprintf("[%s=%d]", d.Name, d.Len())
	}
	return s
}

func tiffInfo(ctx context.Context, w io.Writer, cfg *gridtiff.Config, in string) error {
	local, cleanup, err := maybeDownload(ctx, in, cfg.TempDir)
	if err != nil {
		return err
	}
	defer cleanup()
	r, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("gridtiff: %v", err)
	}
	defer r.Close()
	img, err := geotiff.Decode(r)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "size: %dx%d\n", img.Width, img.Height)
	fmt.Fprintf(w, "geotransform: %v\n", img.GeoTransform)
	fmt.Fprintf(w, "EPSG: %d\n", img.EPSG)
	if img.NoData != "" {
		fmt.Fprintf(w, "no-data: %s\n", img.NoData)
	}
	fmt.Fprintf(w, "values: %v\n", quicklook.Summarize(img.Data))
	return nil
}
