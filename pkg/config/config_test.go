package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {

	rawConfig := strings.NewReader(`
server:
  port: 10099
  address: localhost
  log:
    error: stderr
    info: stdout
storage:
  upload_dir: /tmp/previews
  max_upload_mb: 100
  retention_minutes: 20
exiftool:
  binary: /usr/local/bin/exiftool
  timeout_seconds: 5
previews:
  max_count: 3
`)

	config, err := LoadConfig(rawConfig)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if config.Server.Port != 10099 {
		t.Fatalf("unexpected server port: %d", config.Server.Port)
	}

	if config.Server.Address != "localhost" {
		t.Fatalf("unexpected server address: %s", config.Server.Address)
	}

	if config.Server.LoggerError == nil {
		t.Fatalf("logger error was nil")
	}

	if config.Server.LoggerError.Writer() != os.Stderr {
		t.Fatalf("unexpected server logger error: %v", config.Server.LoggerError)
	}

	if config.Storage.UploadDir != "/tmp/previews" {
		t.Fatalf("unexpected upload dir: %s", config.Storage.UploadDir)
	}

	if config.Storage.MaxUploadBytes != 100*1024*1024 {
		t.Fatalf("unexpected max upload bytes: %d", config.Storage.MaxUploadBytes)
	}

	if config.Storage.Retention != 20*time.Minute {
		t.Fatalf("unexpected retention: %s", config.Storage.Retention)
	}

	if config.Exiftool.Binary != "/usr/local/bin/exiftool" {
		t.Fatalf("unexpected exiftool binary: %s", config.Exiftool.Binary)
	}

	if config.Exiftool.Timeout != 5*time.Second {
		t.Fatalf("unexpected exiftool timeout: %s", config.Exiftool.Timeout)
	}

	if config.Previews.MaxCount != 3 {
		t.Fatalf("unexpected preview max count: %d", config.Previews.MaxCount)
	}
}

func TestLoadConfigDefaults(t *testing.T) {

	rawConfig := strings.NewReader(`
server:
  port: 8080
  address: localhost
`)

	config, err := LoadConfig(rawConfig)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if config.Storage.UploadDir != "uploads" {
		t.Fatalf("unexpected upload dir default: %s", config.Storage.UploadDir)
	}

	if config.Storage.MaxUploadBytes != 200*1024*1024 {
		t.Fatalf("unexpected max upload bytes default: %d", config.Storage.MaxUploadBytes)
	}

	if config.Storage.Retention != 10*time.Minute {
		t.Fatalf("unexpected retention default: %s", config.Storage.Retention)
	}

	if config.Storage.SweepInterval != 5*time.Minute {
		t.Fatalf("unexpected sweep interval default: %s", config.Storage.SweepInterval)
	}

	if config.Exiftool.Binary != "exiftool" {
		t.Fatalf("unexpected exiftool binary default: %s", config.Exiftool.Binary)
	}

	if config.Exiftool.Timeout != 30*time.Second {
		t.Fatalf("unexpected exiftool timeout default: %s", config.Exiftool.Timeout)
	}

	if config.Previews.MaxCount != 5 {
		t.Fatalf("unexpected preview max count default: %d", config.Previews.MaxCount)
	}

	if config.Server.LoggerInfo != nil {
		t.Fatalf("expected no info logger by default")
	}
}
