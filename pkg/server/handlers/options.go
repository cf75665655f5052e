package handlers

import (
	"log"

	"github.com/charlieegan3/preview-console/pkg/exiftool"
	"github.com/charlieegan3/preview-console/pkg/preview"
)

type Options struct {
	DevMode    bool
	EtagScript string
	EtagStyles string

	UploadDir      string
	MaxUploadBytes int64
	MaxPreviews    int

	Client *exiftool.Client

	LoggerError *log.Logger
	LoggerInfo  *log.Logger
}

func (o *Options) previewOptions() *preview.Options {
	return &preview.Options{
		Client:      o.Client,
		MaxCount:    o.MaxPreviews,
		LoggerError: o.LoggerError,
		LoggerInfo:  o.LoggerInfo,
	}
}
