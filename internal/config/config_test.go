package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recovr/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Matching.MinMatchCountItem != 10 {
		t.Fatalf("expected item threshold 10, got %d", cfg.Matching.MinMatchCountItem)
	}
	if cfg.Matching.MinMatchCountSearch != 1 {
		t.Fatalf("expected search threshold 1, got %d", cfg.Matching.MinMatchCountSearch)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
temp_dir = "` + filepath.Join(dir, "tmp") + `"
upload_dirs = ["` + filepath.Join(dir, "uploads") + `", " "]

[matcher]
python_binary = "python3"
script_path = "matcher.py"

[matching]
min_match_count_item = 12
min_match_count_search = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Matching.MinMatchCountItem != 12 {
		t.Fatalf("expected min_match_count_item 12, got %d", cfg.Matching.MinMatchCountItem)
	}
	if len(cfg.Paths.UploadDirs) != 1 {
		t.Fatalf("expected blank upload dir to be dropped, got %v", cfg.Paths.UploadDirs)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected absolute data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[matching]
min_match_count_item = 1
min_match_count_search = 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error for inverted thresholds")
	}
	if !strings.Contains(err.Error(), "min_match_count_search") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.TempDir = filepath.Join(dir, "tmp")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	for _, sub := range []string{"data", "logs", "tmp"} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Fatalf("expected %s directory: %v", sub, err)
		}
	}
	if got := cfg.DatabasePath(); got != filepath.Join(dir, "data", "recovr.db") {
		t.Fatalf("unexpected database path %q", got)
	}
}
