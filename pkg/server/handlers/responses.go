package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

type errorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any, opts *Options) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(payload)
	if err != nil && opts.LoggerError != nil {
		opts.LoggerError.Println(err)
	}
}

// writeError sends the client a terse JSON error. Diagnostic detail
// stays in the server logs, never in the response body.
func writeError(w http.ResponseWriter, status int, message string, opts *Options) {
	writeJSON(w, status, errorResponse{Code: status, Error: message}, opts)
}

// BuildNotFoundHandler is the fallback for unknown routes; the console
// is an API surface first, so misses are JSON rather than a page.
func BuildNotFoundHandler(opts *Options) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint", opts)
	}
}

func sanitizeTag(tag string) string {
	tag = strings.ReplaceAll(tag, "/", "_")

	return strings.ReplaceAll(tag, ":", "_")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func validPathPart(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, "/\\")
}
