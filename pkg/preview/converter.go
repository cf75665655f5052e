package preview

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/google/uuid"
)

const jpegQuality = 95

// Converted is a re-encoded preview ready to serve.
type Converted struct {
	Data           []byte
	Width          int
	Height         int
	OriginalFormat string
}

func silenceVips() {
	vips.LoggingSettings(func(messageDomain string, messageLevel vips.LogLevel, message string) {}, vips.LogLevelCritical)
}

// DetectFormat names the format an image buffer self-reports, or
// UNKNOWN when it cannot be opened as an image at all.
func DetectFormat(data []byte) string {
	silenceVips()

	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return FormatUnknown
	}
	defer img.Close()

	name := vips.ImageTypes[img.Format()]
	if name == "" {
		return FormatUnknown
	}

	return strings.ToUpper(name)
}

// Convert re-encodes preview bytes as a high quality JPEG. When
// sourcePath is set, the encode is materialized through a uniquely
// named temporary file beside the source so the source's metadata can
// be copied onto it; the temporary file is removed on every path out.
// A failed metadata copy is logged and degrades to a preview without
// reattached metadata rather than an error.
func Convert(ctx context.Context, data []byte, sourcePath string, opts *Options) (*Converted, error) {
	if sourcePath != "" && opts.Client == nil {
		return nil, fmt.Errorf("invalid options: Client must be set to copy metadata")
	}

	silenceVips()

	originalFormat := DetectFormat(data)

	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUndecodable, err)
	}
	defer img.Close()

	// JPEG cannot carry transparency or palette/single-channel modes
	if img.HasAlpha() {
		err = img.Flatten(&vips.Color{R: 255, G: 255, B: 255})
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEncodeFailed, err)
		}
	}

	if img.Bands() < 3 {
		err = img.ToColorSpace(vips.InterpretationSRGB)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEncodeFailed, err)
		}
	}

	ep := vips.NewDefaultJPEGExportParams()
	ep.Quality = jpegQuality

	encoded, _, err := img.Export(ep)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncodeFailed, err)
	}

	converted := &Converted{
		Data:           encoded,
		Width:          img.Width(),
		Height:         img.Height(),
		OriginalFormat: originalFormat,
	}

	if sourcePath == "" {
		return converted, nil
	}

	tempPath := fmt.Sprintf("%s_temp_%s.jpg", sourcePath, randomSuffix())
	defer removeTemp(tempPath, opts)

	err = os.WriteFile(tempPath, encoded, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: could not write temporary file: %s", ErrEncodeFailed, err)
	}

	copyErr := opts.Client.CopyAllTags(ctx, sourcePath, tempPath)
	if copyErr != nil {
		opts.errorf("could not copy metadata onto %s: %s", tempPath, copyErr)
	}

	withMeta, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read back temporary file: %s", ErrEncodeFailed, err)
	}

	if copyErr == nil && !HasExif(withMeta) {
		opts.errorf("metadata copy onto %s left no exif block", tempPath)
	}

	converted.Data = withMeta

	return converted, nil
}

// AttachRaw writes preview bytes to a temporary file beside the
// source, copies the source's metadata onto it and returns the result
// with the detected format name. The bytes keep their original
// encoding; only the metadata is added.
func AttachRaw(ctx context.Context, data []byte, sourcePath string, opts *Options) ([]byte, string, error) {
	if opts.Client == nil {
		return nil, "", fmt.Errorf("invalid options: Client must be set to copy metadata")
	}

	format := DetectFormat(data)

	ext := "bin"
	if format != FormatUnknown {
		ext = strings.ToLower(format)
	}

	tempPath := fmt.Sprintf("%s_raw_preview_%s.%s", sourcePath, randomSuffix(), ext)
	defer removeTemp(tempPath, opts)

	err := os.WriteFile(tempPath, data, 0o644)
	if err != nil {
		return nil, "", fmt.Errorf("could not write temporary file: %w", err)
	}

	err = opts.Client.CopyAllTags(ctx, sourcePath, tempPath)
	if err != nil {
		opts.errorf("could not copy metadata onto %s: %s", tempPath, err)
	}

	out, err := os.ReadFile(tempPath)
	if err != nil {
		return nil, "", fmt.Errorf("could not read back temporary file: %w", err)
	}

	return out, format, nil
}

func randomSuffix() string {
	return uuid.NewString()[:8]
}

func removeTemp(path string, opts *Options) {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		opts.errorf("could not remove temporary file %s: %s", path, err)
	}
}
