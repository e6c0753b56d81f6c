package qbin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file-loadable binning configuration for callers that
// drive the binner from deployment config rather than code.
type Config struct {
	// Buckets is the shared bucket budget for all features.
	Buckets int `yaml:"buckets"`

	// Parallelism is the number of feature columns cut concurrently.
	// Zero or negative selects one worker per available CPU.
	Parallelism int `yaml:"parallelism"`

	// Snapshot configures model snapshot encoding for publishing.
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SnapshotConfig selects the snapshot codec and compression by name.
// Names are the ones recorded in snapshot headers ("json"; "none",
// "zstd", "lz4").
type SnapshotConfig struct {
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
}

// DefaultConfig returns the configuration used when a field is omitted.
func DefaultConfig() Config {
	return Config{
		Buckets: 32,
		Snapshot: SnapshotConfig{
			Codec:       "json",
			Compression: "zstd",
		},
	}
}

// LoadConfig reads a YAML config file. Omitted fields keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Buckets < 1 || cfg.Buckets > MaxBuckets {
		return cfg, fmt.Errorf("%w: %d", ErrInvalidBuckets, cfg.Buckets)
	}
	return cfg, nil
}

// Options converts the config into Binner options.
func (c Config) Options() []Option {
	return []Option{WithParallelism(c.Parallelism)}
}
