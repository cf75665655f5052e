package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   Server
	Storage  Storage
	Exiftool Exiftool
	Previews Previews
}

type Server struct {
	Port    int
	Address string
	DevMode bool

	LoggerError *log.Logger
	LoggerInfo  *log.Logger
}

type Storage struct {
	UploadDir      string
	MaxUploadBytes int64
	Retention      time.Duration
	SweepInterval  time.Duration
}

type Exiftool struct {
	Binary  string
	Timeout time.Duration
}

type Previews struct {
	MaxCount int
}

func LoadConfig(rawConfig io.Reader) (*Config, error) {
	config := struct {
		Server struct {
			Port    int    `yaml:"port"`
			Address string `yaml:"address"`
			DevMode bool   `yaml:"dev_mode"`

			Log struct {
				Error string `yaml:"error"`
				Info  string `yaml:"info"`
			} `yaml:"log"`
		} `yaml:"server"`

		Storage struct {
			UploadDir            string `yaml:"upload_dir"`
			MaxUploadMB          int64  `yaml:"max_upload_mb"`
			RetentionMinutes     int    `yaml:"retention_minutes"`
			SweepIntervalMinutes int    `yaml:"sweep_interval_minutes"`
		} `yaml:"storage"`

		Exiftool struct {
			Binary         string `yaml:"binary"`
			TimeoutSeconds int    `yaml:"timeout_seconds"`
		} `yaml:"exiftool"`

		Previews struct {
			MaxCount int `yaml:"max_count"`
		} `yaml:"previews"`
	}{}
	if err := yaml.NewDecoder(rawConfig).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var loggerError *log.Logger
	if config.Server.Log.Error == "stderr" {
		loggerError = log.New(os.Stderr, "", log.LstdFlags)
	}

	var loggerInfo *log.Logger
	if config.Server.Log.Info == "stdout" {
		loggerInfo = log.New(os.Stdout, "", log.LstdFlags)
	}

	if config.Storage.UploadDir == "" {
		config.Storage.UploadDir = "uploads"
	}
	if config.Storage.MaxUploadMB == 0 {
		config.Storage.MaxUploadMB = 200
	}
	if config.Storage.RetentionMinutes == 0 {
		config.Storage.RetentionMinutes = 10
	}
	if config.Storage.SweepIntervalMinutes == 0 {
		config.Storage.SweepIntervalMinutes = 5
	}
	if config.Exiftool.Binary == "" {
		config.Exiftool.Binary = "exiftool"
	}
	if config.Exiftool.TimeoutSeconds == 0 {
		config.Exiftool.TimeoutSeconds = 30
	}
	if config.Previews.MaxCount == 0 {
		config.Previews.MaxCount = 5
	}

	return &Config{
		Server: Server{
			Port:        config.Server.Port,
			Address:     config.Server.Address,
			DevMode:     config.Server.DevMode,
			LoggerError: loggerError,
			LoggerInfo:  loggerInfo,
		},
		Storage: Storage{
			UploadDir:      config.Storage.UploadDir,
			MaxUploadBytes: config.Storage.MaxUploadMB * 1024 * 1024,
			Retention:      time.Duration(config.Storage.RetentionMinutes) * time.Minute,
			SweepInterval:  time.Duration(config.Storage.SweepIntervalMinutes) * time.Minute,
		},
		Exiftool: Exiftool{
			Binary:  config.Exiftool.Binary,
			Timeout: time.Duration(config.Exiftool.TimeoutSeconds) * time.Second,
		},
		Previews: Previews{
			MaxCount: config.Previews.MaxCount,
		},
	}, nil
}
