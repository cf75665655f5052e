package server

import (
	"fmt"
	"net/http"

	"github.com/charlieegan3/preview-console/pkg/server/handlers"
	"github.com/charlieegan3/preview-console/pkg/server/middlewares"
)

func newMux(opts *handlers.Options) (*http.ServeMux, error) {
	mux := http.NewServeMux()

	stylesEtag, stylesHandler, err := handlers.BuildCSSHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build styles handler: %s", err)
	}

	scriptETag, scriptHandler, err := handlers.BuildJSHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build script handler: %s", err)
	}

	opts.EtagStyles = stylesEtag
	opts.EtagScript = scriptETag

	indexHandler, err := handlers.BuildIndexHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build index handler: %s", err)
	}

	uploadHandler, err := handlers.BuildUploadHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload handler: %s", err)
	}

	extractHandler, err := handlers.BuildExtractHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build extract handler: %s", err)
	}

	extractRawHandler, err := handlers.BuildExtractRawHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build extract raw handler: %s", err)
	}

	exifHandler, err := handlers.BuildExifHandler(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build exif handler: %s", err)
	}

	notFoundHandler := handlers.BuildNotFoundHandler(opts)

	mux.Handle(
		"/upload",
		middlewares.BuildLogging(http.HandlerFunc(uploadHandler), opts),
	)
	mux.Handle(
		"/extract/",
		middlewares.BuildLogging(http.HandlerFunc(extractHandler), opts),
	)
	mux.Handle(
		"/extract_raw/",
		middlewares.BuildLogging(http.HandlerFunc(extractRawHandler), opts),
	)
	mux.Handle(
		"/exif/",
		middlewares.BuildLogging(http.HandlerFunc(exifHandler), opts),
	)

	mux.Handle(
		"/favicon.ico",
		middlewares.BuildLogging(http.HandlerFunc(handlers.BuildFaviconHandler(opts)), opts),
	)
	mux.Handle(
		"/script.js",
		middlewares.BuildLogging(http.HandlerFunc(scriptHandler), opts),
	)
	mux.Handle(
		"/styles.css",
		middlewares.BuildLogging(http.HandlerFunc(stylesHandler), opts),
	)

	mux.Handle(
		"/",
		middlewares.BuildLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				notFoundHandler(w, r)

				return
			}

			indexHandler(w, r)
		}), opts),
	)

	return mux, nil
}
