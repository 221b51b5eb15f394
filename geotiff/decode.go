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

package geotiff

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"
)

type field struct {
	typ   uint16
	count uint32
	raw   []byte
}

func (f field) uints() []uint32 {
	out := make([]uint32, 0, f.count)
	for i := 0; i < int(f.count); i++ {
		switch f.typ {
		case typeShort:
			out = append(out, uint32(binary.LittleEndian.Uint16(f.raw[2*i:])))
		case typeLong:
			out = append(out, binary.LittleEndian.Uint32(f.raw[4*i:]))
		}
	}
	return out
}

func (f field) floats() []float64 {
	if f.typ != typeDouble {
		return nil
	}
	out := make([]float64, f.count)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(f.raw[8*i:]))
	}
	return out
}

// readAt fills b from offset off, ignoring an io.EOF that accompanies a
// complete read.
func readAt(r io.ReaderAt, b []byte, off int64) error {
	n, err := r.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	return err
}

func typeSize(t uint16) int {
	switch t {
	case typeASCII:
		return 1
	case typeShort:
		return 2
	case typeLong:
		return 4
	case typeDouble:
		return 8
	default:
		return 0
	}
}

// Decode reads a little-endian TIFF holding one band of 32- or 64-bit
// floating point pixels in one or more uncompressed strips. The
// geotransform is taken from the ModelTransformation tag, or from the
// ModelTiepoint and ModelPixelScale tags.
func Decode(r io.ReaderAt) (*Image, error) {
	hdr := make([]byte, 8)
	if err := readAt(r, hdr, 0); err != nil {
		return nil, fmt.Errorf("geotiff: reading header: %v", err)
	}
	if string(hdr[:2]) != "II" || binary.LittleEndian.Uint16(hdr[2:]) != 42 {
		return nil, fmt.Errorf("geotiff: not a little-endian TIFF file")
	}
	off := int64(binary.LittleEndian.Uint32(hdr[4:]))
	nb := make([]byte, 2)
	if err := readAt(r, nb, off); err != nil {
		return nil, fmt.Errorf("geotiff: reading IFD: %v", err)
	}
	n := int(binary.LittleEndian.Uint16(nb))
	ifd := make([]byte, 12*n)
	if err := readAt(r, ifd, off+2); err != nil {
		return nil, fmt.Errorf("geotiff: reading IFD: %v", err)
	}
	fields := make(map[uint16]field, n)
	for i := 0; i < n; i++ {
		e := ifd[12*i:]
		tag := binary.LittleEndian.Uint16(e)
		f := field{typ: binary.LittleEndian.Uint16(e[2:]), count: binary.LittleEndian.Uint32(e[4:])}
		size := typeSize(f.typ) * int(f.count)
		if size <= 4 {
			f.raw = append([]byte(nil), e[8:8+4]...)
		} else {
			f.raw = make([]byte, size)
			if err := readAt(r, f.raw, int64(binary.LittleEndian.Uint32(e[8:]))); err != nil {
				return nil, fmt.Errorf("geotiff: reading tag %d: %v", tag, err)
			}
		}
		fields[tag] = f
	}

	get := func(tag uint16) (uint32, error) {
		v := fields[tag].uints()
		if len(v) == 0 {
			return 0, fmt.Errorf("geotiff: missing tag %d", tag)
		}
		return v[0], nil
	}
	img := new(Image)
	w, err := get(tagImageWidth)
	if err != nil {
		return nil, err
	}
	h, err := get(tagImageLength)
	if err != nil {
		return nil, err
	}
	img.Width, img.Height = int(w), int(h)
	if c, err := get(tagCompression); err == nil && c != 1 {
		return nil, fmt.Errorf("geotiff: compression %d is not supported", c)
	}
	if spp, err := get(tagSamplesPerPixel); err == nil && spp != 1 {
		return nil, fmt.Errorf("geotiff: %d samples per pixel; only 1 is supported", spp)
	}
	if sf, err := get(tagSampleFormat); err != nil || sf != sampleFormatIEEEFP {
		return nil, fmt.Errorf("geotiff: only floating point samples are supported")
	}
	bits, err := get(tagBitsPerSample)
	if err != nil {
		return nil, err
	}
	if bits != 32 && bits != 64 {
		return nil, fmt.Errorf("geotiff: %d-bit samples are not supported", bits)
	}

	offsets := fields[tagStripOffsets].uints()
	counts := fields[tagStripByteCounts].uints()
	if len(offsets) == 0 || len(offsets) != len(counts) {
		return nil, fmt.Errorf("geotiff: invalid strip layout")
	}
	var raw []byte
	for i, o := range offsets {
		b := make([]byte, counts[i])
		if err := readAt(r, b, int64(o)); err != nil {
			return nil, fmt.Errorf("geotiff: reading strip %d: %v", i, err)
		}
		raw = append(raw, b...)
	}
	npix := img.Width * img.Height
	step := int(bits) / 8
	if len(raw) < npix*step {
		return nil, fmt.Errorf("geotiff: %d bytes of pixel data for %dx%d pixels", len(raw), img.Width, img.Height)
	}
	img.Data = make([]float64, npix)
	for i := range img.Data {
		if step == 8 {
			img.Data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		} else {
			img.Data[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	}

	if m := fields[tagModelTransformation].floats(); len(m) == 16 {
		img.GeoTransform = [6]float64{m[3], m[0], m[1], m[7], m[4], m[5]}
	} else if tp, sc := fields[tagModelTiepoint].floats(), fields[tagModelPixelScale].floats(); len(tp) >= 6 && len(sc) >= 2 {
		img.GeoTransform = [6]float64{tp[3] - tp[0]*sc[0], sc[0], 0, tp[4] + tp[1]*sc[1], 0, -sc[1]}
	}

	keys := fields[tagGeoKeyDirectory].uints()
	for i := 4; i+3 < len(keys); i += 4 {
		if keys[i] == keyGeographicType && keys[i+1] == 0 {
			img.EPSG = int(keys[i+3])
		}
	}
	if nd, ok := fields[tagGDALNoData]; ok && nd.typ == typeASCII {
		img.NoData = strings.TrimRight(string(nd.raw[:nd.count]), "\x00 ")
	}
	return img, nil
}
