package preview

import (
	"github.com/dsoprea/go-exif/v3"
)

// HasExif reports whether an encoded image carries an EXIF block.
// Used after metadata reattachment to confirm the copy actually took:
// the tool can exit zero having written nothing.
func HasExif(data []byte) bool {
	_, err := exif.SearchAndExtractExif(data)
	if err == exif.ErrNoExif {
		return false
	}

	return err == nil
}
