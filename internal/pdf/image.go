package pdf

import (
	"bytes"
	"compress/zlib"
	goimage "image"

	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/rasterimage"
	"github.com/vortex/docpipe/internal/wml"
)

// ImageResource is one embedded image XObject, referenced by name from
// the page Resources that draw it. Media is embedded once per unique
// MediaItem and shared across every page that uses it (§4.6 "Each unique
// image is embedded once and referenced by name from every page using
// it.").
type ImageResource struct {
	Name Name
	ref  Ref
}

// IsPlaceholder reports whether this resource never got a usable decoded
// image (missing media item or undecodable bytes), meaning the page
// renderer should draw a gray rectangle instead of a Do operator.
func (ir *ImageResource) IsPlaceholder() bool { return ir.ref == 0 }

// ImageEmbedder embeds DocumentModel.Media items as PDF image XObjects,
// keyed by the MediaItem's part name so the same picture referenced from
// ten paragraphs still produces one XObject.
type ImageEmbedder struct {
	doc       *Document
	resources map[string]*ImageResource
	order     []string
	diags     *docerr.Diagnostics
}

func NewImageEmbedder(doc *Document, diags *docerr.Diagnostics) *ImageEmbedder {
	return &ImageEmbedder{doc: doc, resources: make(map[string]*ImageResource), diags: diags}
}

// Resource returns (embedding lazily, on first reference) the XObject for
// the media item keyed by mediaKey. A missing or undecodable item
// degrades to a gray placeholder rectangle the size the layout stage
// already reserved (§4.6 "Failure semantics": "A missing image is
// replaced by a gray placeholder rectangle of the declared frame").
func (ie *ImageEmbedder) Resource(mediaKey string, media map[string]*wml.MediaItem) *ImageResource {
	if r, ok := ie.resources[mediaKey]; ok {
		return r
	}
	idx := len(ie.order)
	name := Name(imageResourceName(idx))
	ie.order = append(ie.order, mediaKey)

	item, ok := media[mediaKey]
	if !ok {
		ie.diags.Warn(docerr.StagePDF, "", "missing media item %q, drawing placeholder", mediaKey)
		ir := &ImageResource{Name: name}
		ie.resources[mediaKey] = ir
		return ir
	}

	ref, err := ie.embed(item)
	if err != nil {
		ie.diags.Warn(docerr.StagePDF, "", "undecodable image %q: %v, drawing placeholder", mediaKey, err)
		ir := &ImageResource{Name: name}
		ie.resources[mediaKey] = ir
		return ir
	}
	ir := &ImageResource{Name: name, ref: ref}
	ie.resources[mediaKey] = ir
	return ir
}

// ResourceDict builds the /XObject entries of the shared Resources
// dictionary, one name per distinct image actually referenced anywhere in
// the document. Placeholder entries (missing/undecodable media) are
// omitted since nothing was ever embedded for them to point at; their
// gray rectangle is pure content-stream drawing, not an XObject.
func (ie *ImageEmbedder) ResourceDict() Dict {
	d := make(Dict, len(ie.resources))
	for _, key := range ie.order {
		r := ie.resources[key]
		if r.IsPlaceholder() {
			continue
		}
		d[r.Name] = r.ref
	}
	return d
}

func imageResourceName(idx int) string {
	const letters = "0123456789"
	if idx < 10 {
		return "Im" + string(letters[idx])
	}
	return "Im" + string(rune('0'+idx/10)) + string(rune('0'+idx%10))
}

// embed decodes item's pixels and writes the image XObject stream. A
// source JPEG is passed through untouched under /DCTDecode, since
// redecoding and re-encoding it would only lose quality for no benefit;
// every other format is decoded to raw RGB and flate-compressed.
func (ie *ImageEmbedder) embed(item *wml.MediaItem) (Ref, error) {
	decoded, err := rasterimage.Decode(item.Data)
	if err != nil {
		return 0, err
	}

	if decoded.Metrics.MimeType == rasterimage.MimeJPEG {
		dict := Dict{
			"Type":             Name("XObject"),
			"Subtype":          Name("Image"),
			"Width":            Int(decoded.Metrics.WidthPx),
			"Height":           Int(decoded.Metrics.HeightPx),
			"ColorSpace":       Name("DeviceRGB"),
			"BitsPerComponent": Int(8),
			"Filter":           Name("DCTDecode"),
		}
		return ie.doc.Add(&Stream{Dict: dict, Data: item.Data}), nil
	}

	pixels, alpha := rgbBytes(decoded.Image)
	compressed, err := flateCompress(pixels)
	if err != nil {
		return 0, err
	}
	dict := Dict{
		"Type":             Name("XObject"),
		"Subtype":          Name("Image"),
		"Width":            Int(decoded.Metrics.WidthPx),
		"Height":           Int(decoded.Metrics.HeightPx),
		"ColorSpace":       Name("DeviceRGB"),
		"BitsPerComponent": Int(8),
		"Filter":           Name("FlateDecode"),
	}
	if alpha != nil {
		smaskData, err := flateCompress(alpha)
		if err == nil {
			smaskRef := ie.doc.Add(&Stream{Dict: Dict{
				"Type":             Name("XObject"),
				"Subtype":          Name("Image"),
				"Width":            Int(decoded.Metrics.WidthPx),
				"Height":           Int(decoded.Metrics.HeightPx),
				"ColorSpace":       Name("DeviceGray"),
				"BitsPerComponent": Int(8),
				"Filter":           Name("FlateDecode"),
			}, Data: smaskData})
			dict["SMask"] = smaskRef
		}
	}
	return ie.doc.Add(&Stream{Dict: dict, Data: compressed}), nil
}

// rgbBytes flattens an image.Image to raw 8-bit RGB rows (PDF's
// DeviceRGB sample layout), plus a parallel 8-bit gray alpha plane when
// the source has a non-opaque alpha channel (nil otherwise, so fully
// opaque images don't carry a needless SMask).
func rgbBytes(img goimage.Image) (rgb []byte, alpha []byte) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgb = make([]byte, w*h*3)
	hasAlpha := false
	alphaBuf := make([]byte, w*h)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			rgb[i*3] = byte(r >> 8)
			rgb[i*3+1] = byte(g >> 8)
			rgb[i*3+2] = byte(bl >> 8)
			av := byte(a >> 8)
			alphaBuf[i] = av
			if av != 255 {
				hasAlpha = true
			}
			i++
		}
	}
	if hasAlpha {
		alpha = alphaBuf
	}
	return rgb, alpha
}

func flateCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
