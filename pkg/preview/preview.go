// Package preview discovers, extracts and converts the bitmaps camera
// RAW files embed in their metadata.
package preview

import (
	"errors"
	"log"

	"github.com/charlieegan3/preview-console/pkg/exiftool"
)

var (
	// ErrNoValidPreview means no candidate tag yielded usable binary
	// data.
	ErrNoValidPreview = errors.New("no valid preview data")
	// ErrUndecodable means the extracted bytes could not be opened as
	// an image at all.
	ErrUndecodable = errors.New("undecodable image data")
	// ErrEncodeFailed means the image decoded but could not be
	// re-encoded for the web.
	ErrEncodeFailed = errors.New("image encoding failed")
)

// FormatUnknown labels binary data that no image loader recognized.
const FormatUnknown = "UNKNOWN"

// WebFormats are encodings browsers display without conversion.
var WebFormats = map[string]bool{
	"JPEG": true,
	"JPG":  true,
	"PNG":  true,
	"GIF":  true,
	"WEBP": true,
	"AVIF": true,
	"SVG":  true,
	"BMP":  true,
	"ICO":  true,
}

// ConvertedFormatLabel names the format a manifest entry is served in.
// Everything is re-encoded to JPEG; entries whose source was already a
// web format keep their original label.
func ConvertedFormatLabel(originalFormat string) string {
	if WebFormats[originalFormat] {
		return originalFormat
	}

	return "JPEG"
}

type Options struct {
	Client   *exiftool.Client
	MaxCount int

	LoggerError *log.Logger
	LoggerInfo  *log.Logger
}

func (o *Options) errorf(format string, args ...any) {
	if o.LoggerError != nil {
		o.LoggerError.Printf(format, args...)
	}
}

func (o *Options) infof(format string, args ...any) {
	if o.LoggerInfo != nil {
		o.LoggerInfo.Printf(format, args...)
	}
}
