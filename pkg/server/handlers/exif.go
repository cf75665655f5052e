package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlieegan3/preview-console/pkg/metadata"
)

// BuildExifHandler serves the truncated metadata record for an
// uploaded file as JSON, for seeing exactly what the tool reported.
func BuildExifHandler(opts *Options) (func(http.ResponseWriter, *http.Request), error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("Client is required")
	}

	if opts.UploadDir == "" {
		return nil, fmt.Errorf("UploadDir is required")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/exif/"), "/")
		if len(parts) != 2 || !validPathPart(parts[0]) || !validPathPart(parts[1]) {
			writeError(w, http.StatusNotFound, "no such endpoint", opts)

			return
		}

		path := filepath.Join(opts.UploadDir, fmt.Sprintf("%s.%s", parts[0], parts[1]))

		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "file expired", opts)

			return
		}

		record, err := metadata.Read(r.Context(), opts.Client, path)
		if err != nil {
			if opts.LoggerError != nil {
				opts.LoggerError.Printf("could not read metadata for %s: %s", path, err)
			}

			writeError(w, http.StatusInternalServerError, "metadata extraction failed", opts)

			return
		}

		writeJSON(w, http.StatusOK, record, opts)
	}, nil
}
