package test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// JPEGFixture returns an encoded JPEG of the given size. The pixels
// form a gradient so the output never compresses down to a handful of
// bytes.
func JPEGFixture(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer

	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	if err != nil {
		t.Fatalf("failed to encode fixture: %s", err)
	}

	return buf.Bytes()
}

// PNGFixture returns an encoded PNG of the given size. When withAlpha
// is set the pixels carry partial transparency.
func PNGFixture(t *testing.T, width, height int, withAlpha bool) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := uint8(255)
			if withAlpha {
				a = uint8((x + y) % 256)
			}

			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: 64, B: uint8(y % 256), A: a})
		}
	}

	var buf bytes.Buffer

	err := png.Encode(&buf, img)
	if err != nil {
		t.Fatalf("failed to encode fixture: %s", err)
	}

	return buf.Bytes()
}
