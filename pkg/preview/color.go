package preview

import (
	"bytes"
	"image"
	_ "image/jpeg"

	"github.com/EdlinOrg/prominentcolor"
)

// AccentColor returns the dominant colour of an encoded image as a
// css hex string. Decoration for manifest entries only: any failure
// is logged and yields an empty string, never an error.
func AccentColor(data []byte, opts *Options) string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		opts.errorf("could not decode image for colour analysis: %s", err)

		return ""
	}

	colors, err := prominentcolor.Kmeans(img)
	if err != nil {
		opts.errorf("could not extract prominent colours: %s", err)

		return ""
	}

	if len(colors) == 0 {
		return ""
	}

	return "#" + colors[0].AsString()
}
