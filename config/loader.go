package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPaths are searched in order when no config path is given.
var DefaultPaths = []string{"config.yml", "config.yaml"}

// Default returns the configuration used when no file is present.
func Default() AppConfig {
	return AppConfig{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Snapshot: SnapshotConfig{Backend: "file"},
		GTFS:     GTFSConfig{WaitTime: 6, Velocity: 40, FetchTimeout: 30 * time.Second},
	}
}

// Load reads the configuration at path. With an empty path DefaultPaths are
// tried and a missing file yields Default(); an explicit path must exist.
// Unset values fall back to Default().
func Load(path string) (AppConfig, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		for _, p := range DefaultPaths {
			b, err := os.ReadFile(p)
			if err == nil {
				data, path = b, p
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return AppConfig{}, fmt.Errorf("read config %s: %w", p, err)
			}
		}
		if data == nil {
			return Default(), nil
		}
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(data []byte) (AppConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return AppConfig{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyDefaults restores defaults for keys present in the file but left empty
func applyDefaults(cfg *AppConfig) {
	d := Default()
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.Snapshot.Backend == "" {
		cfg.Snapshot.Backend = d.Snapshot.Backend
	}
	if cfg.GTFS.Velocity == 0 {
		cfg.GTFS.Velocity = d.GTFS.Velocity
	}
	if cfg.GTFS.FetchTimeout == 0 {
		cfg.GTFS.FetchTimeout = d.GTFS.FetchTimeout
	}
}
