package bkdtree

import "fmt"

// DefaultLeafCapacity is the leaf bucket size used by DefaultConfig.
const DefaultLeafCapacity = 32

// Config controls tree construction.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// LeafCapacity is the maximum number of points a leaf holds before it is
	// split. Larger values make trees shallower at the cost of longer leaf
	// scans. Zero selects DefaultLeafCapacity; otherwise must be >= 2.
	LeafCapacity int

	// BuildWorkers bounds the number of goroutines used by BulkAdd and
	// Rebalance. Values <= 1 build on the calling goroutine. Incremental
	// insertion and queries are never parallel. Default: 1.
	BuildWorkers int

	// Logger receives debug events for bulk builds and clears.
	// nil disables logging.
	Logger *Logger
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		LeafCapacity: DefaultLeafCapacity,
		BuildWorkers: 1,
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if cfg.LeafCapacity != 0 && cfg.LeafCapacity < 2 {
		return fmt.Errorf("%w: LeafCapacity must be >= 2, got %d", ErrOutOfRange, cfg.LeafCapacity)
	}
	if cfg.BuildWorkers < 0 {
		return fmt.Errorf("%w: BuildWorkers must be >= 0, got %d", ErrOutOfRange, cfg.BuildWorkers)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.LeafCapacity == 0 {
		cfg.LeafCapacity = DefaultLeafCapacity
	}
	if cfg.BuildWorkers == 0 {
		cfg.BuildWorkers = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = NoopLogger()
	}
}
