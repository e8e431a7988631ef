package testsupport

import (
	"path/filepath"
	"testing"

	"snapsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test. It
// defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Organize.Jobs = 2
	cfg.Cluster.GazetteerPath = filepath.Join(base, "gazetteer.db")
	// Keep retries snappy in tests.
	cfg.Transfer.RetryBaseMS = 1
	cfg.Transfer.RetryMaxMS = 10

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithClustering enables the clustering stage on the test config.
func WithClustering() ConfigOption {
	return func(c *config.Config) {
		c.Organize.WithClustering = true
	}
}

// WithMaxAttempts sets the transfer attempt cap on the test config.
func WithMaxAttempts(n int) ConfigOption {
	return func(c *config.Config) {
		c.Transfer.MaxAttempts = n
	}
}
