package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/charlieegan3/preview-console/pkg/metadata"
	"github.com/charlieegan3/preview-console/pkg/preview"
)

// allowedExtensions are the RAW container types uploads may carry.
var allowedExtensions = map[string]bool{
	"nef": true,
	"cr2": true,
	"cr3": true,
	"arw": true,
	"sr2": true,
	"srf": true,
	"srw": true,
	"dng": true,
	"raf": true,
	"pef": true,
	"rw2": true,
	"orf": true,
	"3fr": true,
	"fff": true,
	"iiq": true,
	"mef": true,
}

type uploadResponse struct {
	Code int        `json:"code"`
	Msg  string     `json:"msg"`
	Data uploadData `json:"data"`
}

type uploadData struct {
	FileID     string           `json:"file_id"`
	Ext        string           `json:"ext"`
	RawExif    *metadata.Record `json:"raw_exif"`
	ParsedExif metadata.Display `json:"parsed_exif"`
	Previews   []preview.Entry  `json:"previews"`
}

func BuildUploadHandler(opts *Options) (func(http.ResponseWriter, *http.Request), error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("Client is required")
	}

	if opts.UploadDir == "" {
		return nil, fmt.Errorf("UploadDir is required")
	}

	extensions := make([]string, 0, len(allowedExtensions))
	for ext := range allowedExtensions {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)

	unsupportedMsg := fmt.Sprintf("unsupported format, supported: %s", strings.Join(extensions, ", "))

	return func(w http.ResponseWriter, r *http.Request) {
		if opts.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, opts.MaxUploadBytes)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(
					w,
					http.StatusRequestEntityTooLarge,
					fmt.Sprintf("file exceeds the %dMB limit", opts.MaxUploadBytes/(1024*1024)),
					opts,
				)

				return
			}

			writeError(w, http.StatusBadRequest, "no file selected", opts)

			return
		}
		defer file.Close()

		originalName := header.Filename

		ext, ok := allowedExtension(originalName)
		if !ok {
			writeError(w, http.StatusBadRequest, unsupportedMsg, opts)

			return
		}

		fileID := uuid.New().String()
		path := filepath.Join(opts.UploadDir, fmt.Sprintf("%s.%s", fileID, ext))

		err = saveUpload(file, path)
		if err != nil {
			if opts.LoggerError != nil {
				opts.LoggerError.Printf("could not save upload: %s", err)
			}

			writeError(w, http.StatusInternalServerError, "processing failed", opts)

			return
		}

		if opts.LoggerInfo != nil {
			opts.LoggerInfo.Printf("uploaded %s.%s (original name: %s)", fileID, ext, originalName)
		}

		record, err := metadata.Read(r.Context(), opts.Client, path)
		if err != nil || record.Len() == 0 {
			if err != nil && opts.LoggerError != nil {
				opts.LoggerError.Printf("could not read metadata for %s: %s", path, err)
			}

			writeError(w, http.StatusInternalServerError, "metadata extraction failed", opts)

			return
		}

		writeJSON(w, http.StatusOK, uploadResponse{
			Code: http.StatusOK,
			Msg:  "upload successful",
			Data: uploadData{
				FileID:     fileID,
				Ext:        ext,
				RawExif:    record,
				ParsedExif: metadata.Normalize(record, originalName),
				Previews:   preview.BuildManifest(r.Context(), path, record, opts.previewOptions()),
			},
		}, opts)
	}, nil
}

func allowedExtension(filename string) (string, bool) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return "", false
	}

	ext := strings.ToLower(filename[i+1:])

	return ext, allowedExtensions[ext]
}

func saveUpload(file io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}

	_, err = io.Copy(out, file)
	if err != nil {
		out.Close()

		return fmt.Errorf("could not write %s: %w", path, err)
	}

	return out.Close()
}
