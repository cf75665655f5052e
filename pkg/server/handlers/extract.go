package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlieegan3/preview-console/pkg/preview"
	"github.com/charlieegan3/preview-console/pkg/utils"
)

// uploadRef locates an uploaded file named in a request path together
// with the metadata tag the request is about.
type uploadRef struct {
	ID   string
	Tag  string
	Path string
}

// parseUploadRef splits {id}/{ext}/{tag} out of a request path. The
// upload is addressed by its opaque ID, never by a client-supplied
// name, so each part must be a single clean path element.
func parseUploadRef(r *http.Request, routePrefix, uploadDir string) (uploadRef, bool) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, routePrefix), "/")
	if len(parts) != 3 {
		return uploadRef{}, false
	}

	for _, part := range parts {
		if !validPathPart(part) {
			return uploadRef{}, false
		}
	}

	return uploadRef{
		ID:   parts[0],
		Tag:  parts[2],
		Path: filepath.Join(uploadDir, fmt.Sprintf("%s.%s", parts[0], parts[1])),
	}, true
}

// BuildExtractHandler serves one embedded preview, re-encoded as a
// browser-ready JPEG carrying the source file's metadata. Extraction
// happens on demand so the manifest stays cheap to build.
func BuildExtractHandler(opts *Options) (func(http.ResponseWriter, *http.Request), error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("Client is required")
	}

	if opts.UploadDir == "" {
		return nil, fmt.Errorf("UploadDir is required")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := parseUploadRef(r, "/extract/", opts.UploadDir)
		if !ok {
			writeError(w, http.StatusNotFound, "no such endpoint", opts)

			return
		}

		_, err := os.Stat(ref.Path)
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "file expired", opts)

			return
		}

		data, _, err := preview.Extract(r.Context(), ref.Path, ref.Tag, opts.previewOptions())
		if err != nil {
			if errors.Is(err, preview.ErrNoValidPreview) {
				writeError(w, http.StatusNotFound, "no preview found for tag", opts)

				return
			}

			if opts.LoggerError != nil {
				opts.LoggerError.Printf("could not extract %s from %s: %s", ref.Tag, ref.Path, err)
			}

			writeError(w, http.StatusInternalServerError, "processing failed", opts)

			return
		}

		converted, err := preview.Convert(r.Context(), data, ref.Path, opts.previewOptions())
		if err != nil {
			if opts.LoggerError != nil {
				opts.LoggerError.Printf("could not convert %s from %s: %s", ref.Tag, ref.Path, err)
			}

			writeError(w, http.StatusInternalServerError, "processing failed", opts)

			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set(
			"Content-Disposition",
			fmt.Sprintf("inline; filename=%q", fmt.Sprintf("%s_%s.jpg", sanitizeTag(ref.Tag), shortID(ref.ID))),
		)
		// previews are served against short-lived uploads, so caching
		// would only serve to mask expiry
		utils.SetCacheControl(w, "no-cache, max-age=0")

		_, err = w.Write(converted.Data)
		if err != nil && opts.LoggerError != nil {
			opts.LoggerError.Println(err)
		}
	}, nil
}

// BuildExtractRawHandler serves one embedded preview in its original
// encoding with the source file's metadata copied onto it, as a
// download.
func BuildExtractRawHandler(opts *Options) (func(http.ResponseWriter, *http.Request), error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("Client is required")
	}

	if opts.UploadDir == "" {
		return nil, fmt.Errorf("UploadDir is required")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := parseUploadRef(r, "/extract_raw/", opts.UploadDir)
		if !ok {
			writeError(w, http.StatusNotFound, "no such endpoint", opts)

			return
		}

		_, err := os.Stat(ref.Path)
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "file expired", opts)

			return
		}

		data, _, err := preview.Extract(r.Context(), ref.Path, ref.Tag, opts.previewOptions())
		if err != nil {
			if errors.Is(err, preview.ErrNoValidPreview) {
				writeError(w, http.StatusNotFound, "no preview found for tag", opts)

				return
			}

			if opts.LoggerError != nil {
				opts.LoggerError.Printf("could not extract %s from %s: %s", ref.Tag, ref.Path, err)
			}

			writeError(w, http.StatusInternalServerError, "processing failed", opts)

			return
		}

		out, format, err := preview.AttachRaw(r.Context(), data, ref.Path, opts.previewOptions())
		if err != nil {
			if opts.LoggerError != nil {
				opts.LoggerError.Printf("could not attach metadata to %s from %s: %s", ref.Tag, ref.Path, err)
			}

			writeError(w, http.StatusInternalServerError, "processing failed", opts)

			return
		}

		contentType := "application/octet-stream"
		ext := "bin"

		if preview.WebFormats[format] {
			ext = strings.ToLower(format)
			contentType = "image/" + ext
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set(
			"Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s_%s.%s", sanitizeTag(ref.Tag), shortID(ref.ID), ext)),
		)
		utils.SetCacheControl(w, "no-cache, max-age=0")

		_, err = w.Write(out)
		if err != nil && opts.LoggerError != nil {
			opts.LoggerError.Println(err)
		}
	}, nil
}
