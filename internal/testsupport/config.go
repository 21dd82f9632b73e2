package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"recovr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TempDir = filepath.Join(base, "tmp")
	cfgVal.Paths.UploadDirs = []string{filepath.Join(base, "uploads")}
	cfgVal.Matcher.ScriptPath = filepath.Join(base, "image_matcher.py")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(cfgVal.Paths.UploadDirs[0], 0o755); err != nil {
		t.Fatalf("mkdir uploads: %v", err)
	}
	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithThresholds overrides the matching threshold configuration.
func WithThresholds(minItem, minSearch int, defaultThreshold, thresholdCap float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.MinMatchCountItem = minItem
		b.cfg.Matching.MinMatchCountSearch = minSearch
		b.cfg.Matching.DefaultThreshold = defaultThreshold
		b.cfg.Matching.ThresholdCap = thresholdCap
	}
}

// WithNotificationsDisabled turns off notification dispatch on the test config.
func WithNotificationsDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.Enabled = false
	}
}

// WithStubbedMatcher writes a shell stub in place of the matcher script that
// echoes the given output lines and exits cleanly, and points python_binary at
// the shell so the oracle can run it.
func WithStubbedMatcher(output string) ConfigOption {
	return func(b *configBuilder) {
		script := "#!/bin/sh\ncat <<'EOF'\n" + output + "\nEOF\n"
		if err := os.WriteFile(b.cfg.Matcher.ScriptPath, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write matcher stub: %v", err)
		}
		b.cfg.Matcher.PythonBinary = "/bin/sh"
	}
}

// UploadDir returns the single upload directory backing the generated config.
func UploadDir(cfg *config.Config) string {
	return cfg.Paths.UploadDirs[0]
}
