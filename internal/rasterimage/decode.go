package rasterimage

import (
	"bytes"
	goimage "image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Decoded holds a fully decoded raster image plus the metrics sniffed from
// its header, ready for the PDF compiler to turn into an image XObject
// (§6.1) or for the layout stage to compute an intrinsic aspect ratio when
// a drawing omits explicit extents.
type Decoded struct {
	Metrics Metrics
	Image   goimage.Image
}

// Decode sniffs an embedded image's format and fully decodes its pixels.
// The decoders are the stdlib's own (image/png, image/jpeg, image/gif) plus
// golang.org/x/image's bmp and tiff packages for the two formats the
// standard library doesn't cover — the same set of formats go-docx's own
// image package recognizes via its MIME sniffing in
// go-docx/pkg/docx/image/constants.go.
func Decode(data []byte) (Decoded, error) {
	metrics, err := SniffMetrics(data)
	if err != nil {
		return Decoded{}, err
	}
	r := bytes.NewReader(data)
	var img goimage.Image
	switch metrics.MimeType {
	case MimeJPEG:
		img, err = jpeg.Decode(r)
	case MimePNG:
		img, err = png.Decode(r)
	case MimeGIF:
		img, err = gif.Decode(r)
	case MimeBMP:
		img, err = bmp.Decode(r)
	case MimeTIFF:
		img, err = tiff.Decode(r)
	default:
		err = ErrUnexpectedEOF
	}
	if err != nil {
		return Decoded{}, err
	}
	bounds := img.Bounds()
	if metrics.WidthPx == 0 {
		metrics.WidthPx = bounds.Dx()
	}
	if metrics.HeightPx == 0 {
		metrics.HeightPx = bounds.Dy()
	}
	return Decoded{Metrics: metrics, Image: img}, nil
}
