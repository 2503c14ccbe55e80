// Package testsupport provides fixture builders shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"subsample/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LedgerDir = filepath.Join(base, "ledger")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithCopyOnly forces copy-only materialization on the test config.
func WithCopyOnly() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Materialize.CopyOnly = true
	}
}

// WithVerifiedCopies enables hash-verified fallback copies.
func WithVerifiedCopies() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Materialize.VerifyCopies = true
	}
}

// WithSeed overrides the default sampling seed.
func WithSeed(seed int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Sampling.DefaultSeed = seed
	}
}
