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

// Package geotiff writes and reads single-band, single-strip GeoTIFF files
// with 64-bit floating point pixels in geographic coordinates. It is the
// raster driver for programs built without cgo; the gridtiff command
// writes through GDAL by default.
package geotiff

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spatialmodel/gridtiff"
	"github.com/spatialmodel/gridtiff/dap"
)

// TIFF tags.
const (
	tagImageWidth          = 256
	tagImageLength         = 257
	tagBitsPerSample       = 258
	tagCompression         = 259
	tagPhotometric         = 262
	tagStripOffsets        = 273
	tagSamplesPerPixel     = 277
	tagRowsPerStrip        = 278
	tagStripByteCounts     = 279
	tagPlanarConfiguration = 284
	tagSampleFormat        = 339
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
	tagGeoKeyDirectory     = 34735
	tagGDALNoData          = 42113
)

// TIFF field types.
const (
	typeASCII  = 2
	typeShort  = 3
	typeLong   = 4
	typeDouble = 12
)

// GeoKeys and their values.
const (
	keyModelType      = 1024
	keyRasterType     = 1025
	keyGeographicType = 2048
	modelGeographic   = 2
	rasterPixelIsArea = 1
)

const (
	sampleFormatIEEEFP    = 3
	photometricMinIsBlack = 1
)

// Driver creates GeoTIFF files.
type Driver struct{}

// Create creates the file at path and returns a sink that writes the
// raster when it is closed. Only one band of Float64 pixels is supported.
// The only recognised option is PHOTOMETRIC, which must be MINISBLACK.
func (Driver) Create(path string, width, height, bands int, dtype dap.Type, options ...string) (gridtiff.Sink, error) {
	if bands != 1 {
		return nil, fmt.Errorf("geotiff: %d bands requested; only 1 is supported", bands)
	}
	if dtype != dap.Float64 {
		return nil, fmt.Errorf("geotiff: unsupported pixel type %v", dtype)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("geotiff: invalid raster size %dx%d", width, height)
	}
	for _, o := range options {
		kv := strings.SplitN(o, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "PHOTOMETRIC") && !strings.EqualFold(kv[1], "MINISBLACK") {
			return nil, fmt.Errorf("geotiff: unsupported option %s", o)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("geotiff: %v", err)
	}
	return &sink{f: f, img: Image{Width: width, Height: height}}, nil
}

type sink struct {
	f   *os.File
	img Image
}

func (s *sink) SetGeoTransform(gt gridtiff.GeoTransform) error {
	s.img.GeoTransform = gt
	return nil
}

func (s *sink) SetSpatialRef(sr gridtiff.SpatialRef) error {
	if sr.EPSG <= 0 || sr.EPSG > math.MaxUint16 {
		return fmt.Errorf("geotiff: EPSG code %d cannot be stored", sr.EPSG)
	}
	s.img.EPSG = sr.EPSG
	return nil
}

func (s *sink) SetNoData(v float64) error {
	s.img.NoData = strconv.FormatFloat(v, 'g', -1, 64)
	return nil
}

func (s *sink) WriteBand(band int, data []float64, width, height int) error {
	if band != 1 {
		return fmt.Errorf("geotiff: band %d does not exist", band)
	}
	if width != s.img.Width || height != s.img.Height || len(data) != width*height {
		return fmt.Errorf("geotiff: %d values for a %dx%d buffer do not fit a %dx%d raster",
			len(data), width, height, s.img.Width, s.img.Height)
	}
	s.img.Data = append([]float64(nil), data...)
	return nil
}

// Close encodes the raster and closes the file. Pixels that were never
// written are zero.
func (s *sink) Close() error {
	if s.f == nil {
		return fmt.Errorf("geotiff: sink already closed")
	}
	if s.img.Data == nil {
		s.img.Data = make([]float64, s.img.Width*s.img.Height)
	}
	w := bufio.NewWriter(s.f)
	err := s.img.encode(w)
	if err == nil {
		err = w.Flush()
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	s.f = nil
	return err
}

// Image is a decoded single-band raster.
type Image struct {
	Width, Height int

	// Data holds the pixels in row-major order.
	Data []float64

	GeoTransform gridtiff.GeoTransform

	// EPSG is the geographic coordinate system code, or 0 if unknown.
	EPSG int

	// NoData is the GDAL no-data value, or "" if there is none.
	NoData string
}

type entry struct {
	tag, typ uint16
	count    uint32
	data     []byte
}

func shorts(v ...uint16) []byte {
	b := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(b[2*i:], x)
	}
	return b
}

func longs(v ...uint32) []byte {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[4*i:], x)
	}
	return b
}

func doubles(v ...float64) []byte {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}
	return b
}

// encode writes the image as a little-endian TIFF with the IFD first, then
// the out-of-line tag values, then a single strip of pixels.
func (img *Image) encode(w *bufio.Writer) error {
	gt := img.GeoTransform
	keys := []uint16{
		keyModelType, 0, 1, modelGeographic,
		keyRasterType, 0, 1, rasterPixelIsArea,
	}
	if img.EPSG > 0 {
		keys = append(keys, keyGeographicType, 0, 1, uint16(img.EPSG))
	}
	keys = append([]uint16{1, 1, 0, uint16(len(keys) / 4)}, keys...)

	stripBytes := uint32(8 * img.Width * img.Height)
	entries := []entry{
		{tag: tagImageWidth, typ: typeLong, count: 1, data: longs(uint32(img.Width))},
		{tag: tagImageLength, typ: typeLong, count: 1, data: longs(uint32(img.Height))},
		{tag: tagBitsPerSample, typ: typeShort, count: 1, data: shorts(64)},
		{tag: tagCompression, typ: typeShort, count: 1, data: shorts(1)},
		{tag: tagPhotometric, typ: typeShort, count: 1, data: shorts(photometricMinIsBlack)},
		{tag: tagStripOffsets, typ: typeLong, count: 1},
		{tag: tagSamplesPerPixel, typ: typeShort, count: 1, data: shorts(1)},
		{tag: tagRowsPerStrip, typ: typeLong, count: 1, data: longs(uint32(img.Height))},
		{tag: tagStripByteCounts, typ: typeLong, count: 1, data: longs(stripBytes)},
		{tag: tagPlanarConfiguration, typ: typeShort, count: 1, data: shorts(1)},
		{tag: tagSampleFormat, typ: typeShort, count: 1, data: shorts(sampleFormatIEEEFP)},
		{tag: tagModelTransformation, typ: typeDouble, count: 16, data: doubles(
			gt[1], gt[2], 0, gt[0],
			gt[4], gt[5], 0, gt[3],
			0, 0, 0, 0,
			0, 0, 0, 1,
		)},
		{tag: tagGeoKeyDirectory, typ: typeShort, count: uint32(len(keys)), data: shorts(keys...)},
	}
	if img.NoData != "" {
		s := img.NoData + "\x00"
		entries = append(entries, entry{tag: tagGDALNoData, typ: typeASCII, count: uint32(len(s)), data: []byte(s)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].tag < entries[j].tag })

	const ifdStart = 8
	extra := uint32(ifdStart + 2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.data) > 4 {
			extra += uint32(len(e.data) + len(e.data)%2)
		}
	}
	dataStart := extra
	for i := range entries {
		if entries[i].tag == tagStripOffsets {
			entries[i].data = longs(dataStart)
		}
	}

	w.Write([]byte("II"))
	w.Write(shorts(42))
	w.Write(longs(ifdStart))
	w.Write(shorts(uint16(len(entries))))
	next := uint32(ifdStart + 2 + 12*len(entries) + 4)
	var outOfLine [][]byte
	for _, e := range entries {
		w.Write(shorts(e.tag, e.typ))
		w.Write(longs(e.count))
		if len(e.data) > 4 {
			w.Write(longs(next))
			d := e.data
			if len(d)%2 == 1 {
				d = append(d, 0)
			}
			outOfLine = append(outOfLine, d)
			next += uint32(len(d))
			continue
		}
		v := make([]byte, 4)
		copy(v, e.data)
		w.Write(v)
	}
	w.Write(longs(0))
	for _, d := range outOfLine {
		w.Write(d)
	}
	buf := make([]byte, 8)
	for _, v := range img.Data {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("geotiff: %v", err)
		}
	}
	return nil
}
