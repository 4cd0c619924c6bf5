package rasterimage

import (
	"bytes"
	"fmt"
)

// MIME content types, ported from the teacher's image.constants.go.
const (
	MimeBMP  = "image/bmp"
	MimeGIF  = "image/gif"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeTIFF = "image/tiff"
)

// Metrics is an image's natural pixel size and resolution, sniffed
// straight from its header without a full pixel decode (§4.2: a
// drawing's declared wp:extent is authoritative for layout, but the PDF
// compiler still needs the source pixel grid to choose a sensible
// embedding resolution).
type Metrics struct {
	MimeType  string
	WidthPx   int
	HeightPx  int
	DPIX      float64
	DPIY      float64
}

// JPEG marker codes, ported from the teacher's image.constants.go.
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
)

var sofMarkerCodes = map[byte]bool{
	0xC0: true, 0xC1: true, 0xC2: true, 0xC3: true,
	0xC5: true, 0xC6: true, 0xC7: true, 0xC9: true,
	0xCA: true, 0xCB: true, 0xCD: true, 0xCE: true, 0xCF: true,
}

var standaloneMarkers = map[byte]bool{
	0x01: true, markerSOI: true, markerEOI: true,
	0xD0: true, 0xD1: true, 0xD2: true, 0xD3: true,
	0xD4: true, 0xD5: true, 0xD6: true, 0xD7: true,
}

// SniffMetrics identifies the format and reads natural dimensions/DPI from
// a raster image's header. Unknown formats return an error; callers that
// only need "does this look like an image" should check the error instead
// of assuming zero-value Metrics is meaningful.
func SniffMetrics(data []byte) (Metrics, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8}):
		return sniffJPEG(data)
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return sniffPNG(data)
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return sniffGIF(data)
	case bytes.HasPrefix(data, []byte("BM")):
		return sniffBMP(data)
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return sniffTIFF(data)
	default:
		return Metrics{}, fmt.Errorf("rasterimage: unrecognized image header")
	}
}

func sniffJPEG(data []byte) (Metrics, error) {
	sr := NewStreamReader(data, true, 0)
	m := Metrics{MimeType: MimeJPEG, DPIX: 72, DPIY: 72}
	pos := int64(2) // past SOI
	for {
		marker, err := sr.ReadByte(0, pos)
		if err != nil {
			return m, err
		}
		if marker != 0xFF {
			return m, fmt.Errorf("rasterimage: jpeg: expected marker at %d", pos)
		}
		code, err := sr.ReadByte(0, pos+1)
		if err != nil {
			return m, err
		}
		pos += 2
		if standaloneMarkers[code] {
			if code == markerEOI {
				return m, nil
			}
			continue
		}
		segLen, err := sr.ReadShort(0, pos)
		if err != nil {
			return m, err
		}
		if sofMarkerCodes[code] {
			height, err := sr.ReadShort(0, pos+3)
			if err != nil {
				return m, err
			}
			width, err := sr.ReadShort(0, pos+5)
			if err != nil {
				return m, err
			}
			m.WidthPx = int(width)
			m.HeightPx = int(height)
			return m, nil
		}
		if code == markerAPP0 {
			// JFIF: density units + Xdensity/Ydensity at a fixed offset.
			if unit, err := sr.ReadByte(0, pos+9); err == nil && unit == 1 {
				if xd, err := sr.ReadShort(0, pos+10); err == nil {
					m.DPIX = float64(xd)
				}
				if yd, err := sr.ReadShort(0, pos+12); err == nil {
					m.DPIY = float64(yd)
				}
			}
		}
		if code == markerSOS {
			return m, fmt.Errorf("rasterimage: jpeg: reached SOS before SOF")
		}
		pos += int64(segLen)
	}
}

func sniffPNG(data []byte) (Metrics, error) {
	sr := NewStreamReader(data, true, 0)
	m := Metrics{MimeType: MimePNG, DPIX: 72, DPIY: 72}
	pos := int64(8)
	for {
		length, err := sr.ReadLong(0, pos)
		if err != nil {
			return m, err
		}
		chunkType, err := sr.ReadStr(4, 0, pos+4)
		if err != nil {
			return m, err
		}
		dataStart := pos + 8
		switch chunkType {
		case "IHDR":
			w, err := sr.ReadLong(0, dataStart)
			if err != nil {
				return m, err
			}
			h, err := sr.ReadLong(0, dataStart+4)
			if err != nil {
				return m, err
			}
			m.WidthPx = int(w)
			m.HeightPx = int(h)
		case "pHYs":
			ppux, err := sr.ReadLong(0, dataStart)
			if err == nil {
				ppuy, err2 := sr.ReadLong(0, dataStart+4)
				unit, err3 := sr.ReadByte(0, dataStart+8)
				if err2 == nil && err3 == nil && unit == 1 {
					m.DPIX = float64(ppux) * 0.0254
					m.DPIY = float64(ppuy) * 0.0254
				}
			}
		case "IEND":
			return m, nil
		}
		pos = dataStart + int64(length) + 4 // skip CRC
		if pos >= int64(len(data)) {
			return m, nil
		}
	}
}

func sniffGIF(data []byte) (Metrics, error) {
	sr := NewStreamReader(data, false, 0)
	w, err := sr.ReadShort(0, 6)
	if err != nil {
		return Metrics{}, err
	}
	h, err := sr.ReadShort(0, 8)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{MimeType: MimeGIF, WidthPx: int(w), HeightPx: int(h), DPIX: 72, DPIY: 72}, nil
}

func sniffBMP(data []byte) (Metrics, error) {
	sr := NewStreamReader(data, false, 0)
	w, err := sr.ReadLong(0, 18)
	if err != nil {
		return Metrics{}, err
	}
	h, err := sr.ReadLong(0, 22)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{MimeType: MimeBMP, WidthPx: int(w), HeightPx: int(h), DPIX: 72, DPIY: 72}, nil
}

const (
	tiffFieldSHORT = 3
	tiffFieldLONG  = 4

	tiffTagImageWidth  = 0x0100
	tiffTagImageLength = 0x0101
	tiffTagXResolution = 0x011A
	tiffTagYResolution = 0x011B
)

func sniffTIFF(data []byte) (Metrics, error) {
	bigEndian := bytes.HasPrefix(data, []byte("MM"))
	sr := NewStreamReader(data, bigEndian, 0)
	ifdOffset, err := sr.ReadLong(0, 4)
	if err != nil {
		return Metrics{}, err
	}
	count, err := sr.ReadShort(0, int64(ifdOffset))
	if err != nil {
		return Metrics{}, err
	}
	m := Metrics{MimeType: MimeTIFF, DPIX: 72, DPIY: 72}
	for i := 0; i < int(count); i++ {
		entryOff := int64(ifdOffset) + 2 + int64(i*12)
		tag, err := sr.ReadShort(0, entryOff)
		if err != nil {
			break
		}
		fieldType, _ := sr.ReadShort(0, entryOff+2)
		var value uint32
		if fieldType == tiffFieldSHORT {
			v, _ := sr.ReadShort(0, entryOff+8)
			value = uint32(v)
		} else if fieldType == tiffFieldLONG {
			value, _ = sr.ReadLong(0, entryOff+8)
		}
		switch tag {
		case tiffTagImageWidth:
			m.WidthPx = int(value)
		case tiffTagImageLength:
			m.HeightPx = int(value)
		case tiffTagXResolution, tiffTagYResolution:
			// Resolution values are stored as RATIONAL (two LONGs, offset
			// elsewhere); approximated here as 72 DPI since the compiler's
			// embedding resolution choice tolerates an approximate DPI.
		}
	}
	return m, nil
}
