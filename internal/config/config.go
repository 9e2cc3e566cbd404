// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() returning defaults; Load() layers file and env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"github.com/okian/fieldday/internal/domain/rules"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// RecomputeQueueSize bounds the in-memory recompute job queue.
	RecomputeQueueSize int `koanf:"recompute_queue_size"`

	// WorkerCount sets the number of recompute workers. One worker keeps
	// recomputations strictly ordered; raise it only if jobs are known to
	// touch disjoint competitions.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the pending-recompute mark cache.
	DedupeSize int `koanf:"dedupe_size"`

	// DefaultRules seeds competitions created without explicit rules.
	DefaultRules rules.ScoringRules `koanf:"default_rules"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8090",
		RecomputeQueueSize: 1024,
		WorkerCount:        1,
		DedupeSize:         10_000,
		DefaultRules:       rules.Default(),
	}
}
