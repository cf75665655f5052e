package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charlieegan3/preview-console/pkg/test"
)

func TestDetectFormat(t *testing.T) {
	testCases := map[string]struct {
		data     []byte
		expected string
	}{
		"jpeg":    {data: test.JPEGFixture(t, 64, 48), expected: "JPEG"},
		"png":     {data: test.PNGFixture(t, 64, 48, false), expected: "PNG"},
		"garbage": {data: []byte("not an image at all"), expected: FormatUnknown},
		"empty":   {data: []byte{}, expected: FormatUnknown},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			format := DetectFormat(testCase.data)

			if format != testCase.expected {
				t.Fatalf("unexpected format: %s", format)
			}
		})
	}
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode output: %s", err)
	}

	if format != "jpeg" {
		t.Fatalf("unexpected output format: %s", format)
	}

	return img
}

func TestConvertInMemory(t *testing.T) {
	opts := &Options{}

	converted, err := Convert(context.Background(), test.JPEGFixture(t, 120, 80), "", opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if converted.OriginalFormat != "JPEG" {
		t.Fatalf("unexpected original format: %s", converted.OriginalFormat)
	}

	if converted.Width != 120 || converted.Height != 80 {
		t.Fatalf("unexpected dimensions: %dx%d", converted.Width, converted.Height)
	}

	img := decodeJPEG(t, converted.Data)
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
		t.Fatalf("unexpected output dimensions: %v", img.Bounds())
	}
}

func TestConvertFlattensAlpha(t *testing.T) {
	opts := &Options{}

	converted, err := Convert(context.Background(), test.PNGFixture(t, 64, 48, true), "", opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if converted.OriginalFormat != "PNG" {
		t.Fatalf("unexpected original format: %s", converted.OriginalFormat)
	}

	decodeJPEG(t, converted.Data)
}

func TestConvertGrayscale(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			gray.Pix[y*gray.Stride+x] = uint8(x * 8)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		t.Fatalf("failed to encode fixture: %s", err)
	}

	converted, err := Convert(context.Background(), buf.Bytes(), "", &Options{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	decodeJPEG(t, converted.Data)
}

func TestConvertUndecodable(t *testing.T) {
	_, err := Convert(context.Background(), []byte("definitely not an image"), "", &Options{})
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestConvertReattachesMetadata(t *testing.T) {
	callLog := filepath.Join(t.TempDir(), "calls.log")

	opts := testOptions(t, test.StubExiftoolOptions{CallLog: callLog})

	source := writeRawFile(t)

	converted, err := Convert(context.Background(), test.JPEGFixture(t, 120, 80), source, opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(converted.Data) == 0 {
		t.Fatalf("expected output data")
	}

	calls := readCallLog(t, callLog)
	if len(calls) != 1 {
		t.Fatalf("unexpected call count: %d", len(calls))
	}

	if !strings.Contains(calls[0], "-tagsfromfile "+source) {
		t.Fatalf("unexpected call: %s", calls[0])
	}

	if !strings.Contains(calls[0], "_temp_") || !strings.Contains(calls[0], ".jpg") {
		t.Fatalf("unexpected temporary file name: %s", calls[0])
	}

	leftovers, err := filepath.Glob(source + "_temp_*")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(leftovers) != 0 {
		t.Fatalf("temporary files were not removed: %v", leftovers)
	}
}

func TestConvertCopyFailureStillSucceeds(t *testing.T) {
	opts := testOptions(t, test.StubExiftoolOptions{
		CopyError: "Error: Nothing to write",
	})

	source := writeRawFile(t)

	converted, err := Convert(context.Background(), test.JPEGFixture(t, 120, 80), source, opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(converted.Data) == 0 {
		t.Fatalf("expected output data despite failed metadata copy")
	}

	decodeJPEG(t, converted.Data)
}

func TestAttachRaw(t *testing.T) {
	callLog := filepath.Join(t.TempDir(), "calls.log")

	opts := testOptions(t, test.StubExiftoolOptions{CallLog: callLog})

	source := writeRawFile(t)
	fixture := test.JPEGFixture(t, 64, 48)

	data, format, err := AttachRaw(context.Background(), fixture, source, opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if format != "JPEG" {
		t.Fatalf("unexpected format: %s", format)
	}

	// the stub copies nothing, so the bytes come back unchanged
	if !bytes.Equal(data, fixture) {
		t.Fatalf("unexpected data returned")
	}

	calls := readCallLog(t, callLog)
	if !strings.Contains(calls[0], "_raw_preview_") || !strings.Contains(calls[0], ".jpeg") {
		t.Fatalf("unexpected temporary file name: %s", calls[0])
	}

	leftovers, err := filepath.Glob(source + "_raw_preview_*")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if len(leftovers) != 0 {
		t.Fatalf("temporary files were not removed: %v", leftovers)
	}
}

func TestAttachRawUnknownFormat(t *testing.T) {
	callLog := filepath.Join(t.TempDir(), "calls.log")

	opts := testOptions(t, test.StubExiftoolOptions{CallLog: callLog})

	payload := []byte("opaque binary data, not an image")

	data, format, err := AttachRaw(context.Background(), payload, writeRawFile(t), opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if format != FormatUnknown {
		t.Fatalf("unexpected format: %s", format)
	}

	if !bytes.Equal(data, payload) {
		t.Fatalf("unexpected data returned")
	}

	calls := readCallLog(t, callLog)
	if !strings.Contains(calls[0], ".bin") {
		t.Fatalf("unexpected temporary file name: %s", calls[0])
	}
}
