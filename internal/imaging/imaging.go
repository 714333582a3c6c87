// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging resizes stored images on demand for the render
// endpoint. Sources may be JPEG, PNG, GIF or WebP; output is JPEG, or PNG
// when the source can carry transparency. Images are never upscaled.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register decoder
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register decoder
)

// Resize modes accepted by the render endpoint.
const (
	ModeCover   = "cover"   // crop to fill the box exactly
	ModeContain = "contain" // fit inside the box, keep aspect
	ModeFill    = "fill"    // stretch to the box
)

const (
	// DefaultQuality is the JPEG quality when none is requested.
	DefaultQuality = 80

	// MaxDimension caps requested widths and heights.
	MaxDimension = 4000
)

// Options describes one transformation. Zero Width or Height means
// "derive from the aspect ratio".
type Options struct {
	Width   int
	Height  int
	Quality int
	Resize  string
}

// Normalize clamps the options to supported ranges.
func (o Options) Normalize() Options {
	o.Width = clamp(o.Width, 0, MaxDimension)
	o.Height = clamp(o.Height, 0, MaxDimension)
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = DefaultQuality
	}
	switch o.Resize {
	case ModeCover, ModeContain, ModeFill:
	default:
		o.Resize = ModeCover
	}
	return o
}

// Result is an encoded image ready to serve.
type Result struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Resize decodes src, applies opts and re-encodes it.
func Resize(src []byte, opts Options) (*Result, error) {
	opts = opts.Normalize()

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	out := transform(img, opts)

	var buf bytes.Buffer
	contentType := "image/jpeg"
	if keepsAlpha(format) {
		contentType = "image/png"
		err = imaging.Encode(&buf, out, imaging.PNG)
	} else {
		err = imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(opts.Quality))
	}
	if err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}

	b := out.Bounds()
	return &Result{Data: buf.Bytes(), ContentType: contentType, Width: b.Dx(), Height: b.Dy()}, nil
}

func transform(img image.Image, opts Options) image.Image {
	b := img.Bounds()
	w, h := opts.Width, opts.Height

	// Cap at the original size to avoid upscaling.
	if w > b.Dx() {
		w = b.Dx()
	}
	if h > b.Dy() {
		h = b.Dy()
	}

	switch {
	case w == 0 && h == 0:
		return img
	case w == 0 || h == 0:
		return imaging.Resize(img, w, h, imaging.Lanczos)
	}

	switch opts.Resize {
	case ModeContain:
		return imaging.Fit(img, w, h, imaging.Lanczos)
	case ModeFill:
		return imaging.Resize(img, w, h, imaging.Lanczos)
	default:
		return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
	}
}

func keepsAlpha(format string) bool {
	f := strings.ToLower(format)
	return f == "png" || f == "gif"
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
