package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteImage drops a small placeholder image file at the target path. Content
// is arbitrary bytes; nothing in the pipeline inspects pixels.
func WriteImage(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("\xff\xd8\xff placeholder"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
