package preview

import (
	"context"
	"fmt"
)

// priorityTags is the extraction order when the caller has no
// specific tag in mind. JpgFromRaw is typically the largest, highest
// fidelity embedded preview across vendors; PreviewImage is smaller
// but very widely populated.
var priorityTags = []string{"JpgFromRaw", "PreviewImage"}

// minValidSize guards against empty and placeholder fields; anything
// this small is not a usable image.
const minValidSize = 100

// Extract pulls embedded preview bytes out of the file at path,
// returning the data and the tag that produced it. An empty tagHint
// tries the fixed priority list; a specific hint is tried alone.
// Per-tag failures are logged and skipped, never fatal on their own.
func Extract(ctx context.Context, path, tagHint string, opts *Options) ([]byte, string, error) {
	if opts.Client == nil {
		return nil, "", fmt.Errorf("invalid options: Client must be set")
	}

	tags := priorityTags
	if tagHint != "" {
		tags = []string{tagHint}
	}

	for _, tag := range tags {
		data, err := opts.Client.ExtractTag(ctx, path, tag)
		if err != nil {
			opts.errorf("could not extract tag %s from %s: %s", tag, path, err)

			continue
		}

		if len(data) <= minValidSize {
			opts.errorf("tag %s in %s held no usable data (%d bytes)", tag, path, len(data))

			continue
		}

		opts.infof("extracted preview from %s (tag: %s, %.2f KB)", path, tag, float64(len(data))/1024)

		return data, tag, nil
	}

	return nil, "", ErrNoValidPreview
}
