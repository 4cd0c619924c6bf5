// Package rasterimage sniffs and decodes the raster image formats DOCX
// packages commonly embed (JPEG, PNG, GIF, BMP, TIFF) so the layout and
// PDF stages can size and render them (§4.2 Drawings, §6.1 image
// XObjects).
package rasterimage

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnexpectedEOF is returned when a header sniff runs past the buffer.
var ErrUnexpectedEOF = errors.New("rasterimage: unexpected end of data")

// StreamReader wraps a byte buffer for structured binary header reads.
// Ported from the teacher's image.StreamReader
// (go-docx/pkg/docx/image/helpers.go), which itself mirrors python-docx's
// helpers.StreamReader; the technique (base+offset addressed reads with a
// configurable byte order) is identical, only the backing store changes
// from an io.ReadSeeker to an in-memory []byte since every image part is
// already fully read into memory by internal/opc.
type StreamReader struct {
	data       []byte
	byteOrder  binary.ByteOrder
	baseOffset int64
}

// NewStreamReader returns a StreamReader over data. bigEndian selects the
// multi-byte integer byte order.
func NewStreamReader(data []byte, bigEndian bool, baseOffset int64) *StreamReader {
	order := binary.ByteOrder(binary.LittleEndian)
	if bigEndian {
		order = binary.BigEndian
	}
	return &StreamReader{data: data, byteOrder: order, baseOffset: baseOffset}
}

func (sr *StreamReader) SetByteOrder(bigEndian bool) {
	if bigEndian {
		sr.byteOrder = binary.BigEndian
	} else {
		sr.byteOrder = binary.LittleEndian
	}
}

func (sr *StreamReader) readBytes(count int, base, offset int64) ([]byte, error) {
	start := sr.baseOffset + base + offset
	end := start + int64(count)
	if start < 0 || end > int64(len(sr.data)) {
		return nil, fmt.Errorf("%w: wanted %d bytes at offset %d", ErrUnexpectedEOF, count, start)
	}
	return sr.data[start:end], nil
}

func (sr *StreamReader) ReadByte(base, offset int64) (byte, error) {
	buf, err := sr.readBytes(1, base, offset)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (sr *StreamReader) ReadShort(base, offset int64) (uint16, error) {
	buf, err := sr.readBytes(2, base, offset)
	if err != nil {
		return 0, err
	}
	return sr.byteOrder.Uint16(buf), nil
}

func (sr *StreamReader) ReadLong(base, offset int64) (uint32, error) {
	buf, err := sr.readBytes(4, base, offset)
	if err != nil {
		return 0, err
	}
	return sr.byteOrder.Uint32(buf), nil
}

func (sr *StreamReader) ReadStr(charCount int, base, offset int64) (string, error) {
	buf, err := sr.readBytes(charCount, base, offset)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
