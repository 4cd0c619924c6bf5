package rasterimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestSniffMetricsPNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	m, err := SniffMetrics(buf.Bytes())
	if err != nil {
		t.Fatalf("SniffMetrics: %v", err)
	}
	if m.MimeType != MimePNG {
		t.Errorf("MimeType = %q, want %q", m.MimeType, MimePNG)
	}
	if m.WidthPx != 40 || m.HeightPx != 20 {
		t.Errorf("dims = %dx%d, want 40x20", m.WidthPx, m.HeightPx)
	}
}

func TestSniffMetricsUnrecognized(t *testing.T) {
	if _, err := SniffMetrics([]byte("not an image")); err == nil {
		t.Fatal("expected error for unrecognized header")
	}
}

func TestSniffMetricsGIF(t *testing.T) {
	data := []byte("GIF89a")
	data = append(data, byte(10), byte(0)) // width = 10, little endian
	data = append(data, byte(5), byte(0))  // height = 5
	data = append(data, 0, 0, 0)
	m, err := SniffMetrics(data)
	if err != nil {
		t.Fatalf("SniffMetrics: %v", err)
	}
	if m.WidthPx != 10 || m.HeightPx != 5 {
		t.Errorf("dims = %dx%d, want 10x5", m.WidthPx, m.HeightPx)
	}
}

func TestDecodePNGRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	d, err := Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if d.Metrics.WidthPx != 8 || d.Metrics.HeightPx != 4 {
		t.Errorf("dims = %dx%d, want 8x4", d.Metrics.WidthPx, d.Metrics.HeightPx)
	}
	if d.Image.Bounds().Dx() != 8 {
		t.Errorf("decoded image width = %d, want 8", d.Image.Bounds().Dx())
	}
}
