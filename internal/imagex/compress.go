// Package imagex implements the photo pipeline: decode an uploaded image,
// downsample it to a bounded dimension, re-encode it as JPEG and wrap it in a
// data URI that can be embedded directly in a record.
package imagex

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrDecode is returned when the input bytes cannot be parsed as a supported
// image. The caller must treat the photo as unset; no partial URI is returned.
var ErrDecode = errors.New("image decode failed")

const (
	// MaxDimension bounds the longer side of the stored photo, in pixels.
	MaxDimension = 800

	// jpegQuality is the fixed lossy re-encode quality (0–100 scale).
	jpegQuality = 70
)

// Compress decodes data (JPEG, PNG, GIF or WebP), scales it so the longer
// side is at most MaxDimension while preserving aspect ratio, flattens any
// transparency onto white and returns the result as a
// "data:image/jpeg;base64,…" URI.
func Compress(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := src.Bounds()
	tw, th := targetSize(b.Dx(), b.Dy())

	flat := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(flat, flat.Bounds(), image.White, image.Point{}, draw.Src)
	if tw == b.Dx() && th == b.Dy() {
		draw.Draw(flat, flat.Bounds(), src, b.Min, draw.Over)
	} else {
		xdraw.CatmullRom.Scale(flat, flat.Bounds(), src, b, xdraw.Over, nil)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("jpeg encode: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// targetSize keeps images within MaxDimension: native size when both sides
// fit, otherwise the longer side becomes exactly MaxDimension and the shorter
// one is rounded to the nearest pixel.
func targetSize(w, h int) (int, int) {
	if w <= MaxDimension && h <= MaxDimension {
		return w, h
	}
	if w >= h {
		return MaxDimension, int(math.Round(float64(h) * MaxDimension / float64(w)))
	}
	return int(math.Round(float64(w) * MaxDimension / float64(h))), MaxDimension
}
