package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoad_DefaultsWithoutFile tests that a missing default file is not an error
func TestLoad_DefaultsWithoutFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without config file failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

// TestLoad_SearchesDefaultPaths tests that config.yml in the working directory is picked up
func TestLoad_SearchesDefaultPaths(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("logging:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected default format text, got %q", cfg.Logging.Format)
	}
}

// TestLoad_MissingExplicitFile tests error handling for a config path that does not exist
func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

// TestParse_Full tests every section
func TestParse_Full(t *testing.T) {
	data := []byte(`
logging:
  level: warn
  format: json
snapshot:
  backend: badger
  badgerDir: /var/lib/transit-catalogue
  syncWrites: true
metrics:
  textfile: /var/lib/node_exporter/catalogue.prom
gtfs:
  waitTime: 4
  velocity: 30
  fetchTimeout: 1m30s
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := AppConfig{
		Logging:  LoggingConfig{Level: "warn", Format: "json"},
		Snapshot: SnapshotConfig{Backend: "badger", BadgerDir: "/var/lib/transit-catalogue", SyncWrites: true},
		Metrics:  MetricsConfig{Textfile: "/var/lib/node_exporter/catalogue.prom"},
		GTFS:     GTFSConfig{WaitTime: 4, Velocity: 30, FetchTimeout: 90 * time.Second},
	}
	if cfg != want {
		t.Errorf("got %+v\nwant %+v", cfg, want)
	}
}

// TestParse_Invalid tests validation failures
func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown level":        "logging:\n  level: loud\n",
		"unknown format":       "logging:\n  format: xml\n",
		"unknown backend":      "snapshot:\n  backend: s3\n",
		"badger without dir":   "snapshot:\n  backend: badger\n",
		"velocity too high":    "gtfs:\n  velocity: 5000\n",
		"negative timeout":     "gtfs:\n  fetchTimeout: -5s\n",
		"malformed yaml":       "logging: [\n",
		"wrong type for level": "logging:\n  level: {a: b}\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); err == nil {
				t.Errorf("expected error for %q", data)
			}
		})
	}
}

// TestParse_EmptyValuesFallBack tests that explicitly empty keys keep their defaults
func TestParse_EmptyValuesFallBack(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  level: \"\"\nsnapshot:\n  backend: \"\"\ngtfs:\n  velocity: 0\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}
