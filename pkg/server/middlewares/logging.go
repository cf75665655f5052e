package middlewares

import (
	"net/http"
	"time"

	"github.com/charlieegan3/preview-console/pkg/server/handlers"
)

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// BuildLogging wraps a handler to log each request's method, path,
// status and elapsed time on the info logger.
func BuildLogging(h http.Handler, opts *handlers.Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if opts.LoggerInfo == nil {
			h.ServeHTTP(w, r)

			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()

		h.ServeHTTP(rec, r)

		opts.LoggerInfo.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
