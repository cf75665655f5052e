package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/charlieegan3/preview-console/pkg/config"
	"github.com/charlieegan3/preview-console/pkg/exiftool"
	"github.com/charlieegan3/preview-console/pkg/janitor"
	"github.com/charlieegan3/preview-console/pkg/server/handlers"
)

func NewServer(cfg *config.Config) (Server, error) {
	return Server{
		cfg: cfg,
	}, nil
}

type Server struct {
	cfg *config.Config

	httpServer *http.Server
}

func (s *Server) Start(ctx context.Context) error {
	err := os.MkdirAll(s.cfg.Storage.UploadDir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	mux, err := newMux(
		&handlers.Options{
			DevMode:        s.cfg.Server.DevMode,
			UploadDir:      s.cfg.Storage.UploadDir,
			MaxUploadBytes: s.cfg.Storage.MaxUploadBytes,
			MaxPreviews:    s.cfg.Previews.MaxCount,
			Client:         exiftool.New(s.cfg.Exiftool.Binary, s.cfg.Exiftool.Timeout),
			LoggerInfo:     s.cfg.Server.LoggerInfo,
			LoggerError:    s.cfg.Server.LoggerError,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create mux: %w", err)
	}

	s.httpServer = &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			s.cfg.Server.Address,
			s.cfg.Server.Port,
		),
		Handler: mux,
	}

	go func() {
		if s.cfg.Storage.SweepInterval <= 0 {
			return
		}

		ticker := time.NewTicker(s.cfg.Storage.SweepInterval)
		defer ticker.Stop()

		fs := afero.NewOsFs()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_, err := janitor.Run(fs, &janitor.Options{
					Dir:         s.cfg.Storage.UploadDir,
					MaxAge:      s.cfg.Storage.Retention,
					LoggerInfo:  s.cfg.Server.LoggerInfo,
					LoggerError: s.cfg.Server.LoggerError,
				})
				if err != nil && s.cfg.Server.LoggerError != nil {
					s.cfg.Server.LoggerError.Printf("error sweeping uploads: %v", err)
				}
			}
		}
	}()

	// Stop may nil out s.httpServer before ctx is done, so the
	// goroutines hold their own reference
	httpServer := s.httpServer

	go func() {
		<-ctx.Done()

		err := httpServer.Shutdown(ctx)
		if err != nil && s.cfg.Server.LoggerError != nil {
			s.cfg.Server.LoggerError.Println("failed to shutdown", err)
		}
	}()

	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) && s.cfg.Server.LoggerError != nil {
			s.cfg.Server.LoggerError.Println("failed to listen and serve", err)
		}
	}()

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		err := s.httpServer.Shutdown(ctx)
		if err != nil {
			return err
		}
	}

	s.httpServer = nil

	return nil
}
