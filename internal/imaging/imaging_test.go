// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(t *testing.T, w, h int, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	var err error
	if format == "png" {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestResizeModes(t *testing.T) {
	src := testImage(t, 400, 200, "jpeg")

	tests := []struct {
		name         string
		opts         Options
		wantW, wantH int
	}{
		{"cover crops to box", Options{Width: 100, Height: 100, Resize: ModeCover}, 100, 100},
		{"contain keeps aspect", Options{Width: 100, Height: 100, Resize: ModeContain}, 100, 50},
		{"fill stretches", Options{Width: 100, Height: 100, Resize: ModeFill}, 100, 100},
		{"width only", Options{Width: 200}, 200, 100},
		{"height only", Options{Height: 50}, 100, 50},
		{"no upscaling", Options{Width: 800}, 400, 200},
		{"no dimensions", Options{}, 400, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resize(src, tt.opts)
			if err != nil {
				t.Fatalf("Resize: %v", err)
			}
			if res.Width != tt.wantW || res.Height != tt.wantH {
				t.Errorf("got %dx%d, want %dx%d", res.Width, res.Height, tt.wantW, tt.wantH)
			}
			if res.ContentType != "image/jpeg" {
				t.Errorf("content type: %s", res.ContentType)
			}
			if _, err := jpeg.Decode(bytes.NewReader(res.Data)); err != nil {
				t.Errorf("output is not a JPEG: %v", err)
			}
		})
	}
}

func TestResizePNGStaysPNG(t *testing.T) {
	res, err := Resize(testImage(t, 50, 50, "png"), Options{Width: 10})
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if res.ContentType != "image/png" {
		t.Errorf("content type: %s", res.ContentType)
	}
}

func TestResizeRejectsGarbage(t *testing.T) {
	if _, err := Resize([]byte("definitely not an image"), Options{Width: 10}); err == nil {
		t.Error("expected decode error")
	}
}

func TestOptionsNormalize(t *testing.T) {
	o := Options{Width: -5, Height: 99999, Quality: 0, Resize: "zoom"}.Normalize()
	if o.Width != 0 || o.Height != MaxDimension || o.Quality != DefaultQuality || o.Resize != ModeCover {
		t.Errorf("unexpected normalization: %+v", o)
	}
}
