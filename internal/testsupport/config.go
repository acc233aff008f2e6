// Package testsupport provides fixtures shared across package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"simtagger/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// The addons and feed roots exist; the destination root does not, so moves
// exercise their creation path.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AddonsRoot = filepath.Join(base, "addons")
	cfg.Paths.FeedRoot = filepath.Join(base, "feed")
	cfg.Paths.DestRoot = filepath.Join(base, "accepted")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.History.Enabled = false
	cfg.History.Path = filepath.Join(base, "history.db")

	for _, dir := range []string{cfg.Paths.AddonsRoot, cfg.Paths.FeedRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithHistory enables the history database on the test config.
func WithHistory() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = true
	}
}

// WithSpaceMargin overrides the free-space margin on the test config.
func WithSpaceMargin(bytes int64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Relocation.SpaceMarginBytes = bytes
	}
}
