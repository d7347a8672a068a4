package config

import "time"

// LoggingConfig controls the process logger
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// SnapshotConfig selects where snapshots are stored
type SnapshotConfig struct {
	Backend    string `yaml:"backend" validate:"omitempty,oneof=file badger"`
	Dir        string `yaml:"dir"`
	BadgerDir  string `yaml:"badgerDir" validate:"required_if=Backend badger"`
	SyncWrites bool   `yaml:"syncWrites"`
}

// MetricsConfig contains metrics output configuration
type MetricsConfig struct {
	// Textfile, when set, receives a prometheus text dump after each run
	Textfile string `yaml:"textfile"`
}

// GTFSConfig contains the routing defaults used when importing a GTFS feed
type GTFSConfig struct {
	WaitTime uint32 `yaml:"waitTime" validate:"lte=1000"`
	Velocity uint32 `yaml:"velocity" validate:"gte=1,lte=1000"`

	// FetchTimeout bounds each HTTP download of a feed
	FetchTimeout time.Duration `yaml:"fetchTimeout" validate:"gte=0"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	GTFS     GTFSConfig     `yaml:"gtfs"`
}
