// Package janitor removes expired files from upload storage. Uploads
// are ephemeral: anything older than the retention window is deleted,
// including stray temporary files left behind by interrupted work.
package janitor

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

type Report struct {
	FilesRemoved int
}

type Options struct {
	Dir    string
	MaxAge time.Duration

	LoggerError *log.Logger
	LoggerInfo  *log.Logger
}

// Run sweeps the directory once, removing regular files whose
// modification time is older than MaxAge. Individual removal failures
// are logged and skipped so one stubborn file cannot stall the sweep.
func Run(fs afero.Fs, opts *Options) (*Report, error) {
	if opts.MaxAge <= 0 {
		return nil, fmt.Errorf("invalid MaxAge: %s", opts.MaxAge)
	}

	var rep Report

	cutoff := time.Now().Add(-opts.MaxAge)

	infos, err := afero.ReadDir(fs, opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", opts.Dir, err)
	}

	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}

		if !info.ModTime().Before(cutoff) {
			continue
		}

		err = fs.Remove(filepath.Join(opts.Dir, info.Name()))
		if err != nil {
			if opts.LoggerError != nil {
				opts.LoggerError.Printf("could not remove %s: %s", info.Name(), err)
			}

			continue
		}

		rep.FilesRemoved++

		if opts.LoggerInfo != nil {
			opts.LoggerInfo.Printf("removed expired file: %s", info.Name())
		}
	}

	if rep.FilesRemoved > 0 && opts.LoggerInfo != nil {
		opts.LoggerInfo.Printf("removed %d expired files", rep.FilesRemoved)
	}

	return &rep, nil
}
