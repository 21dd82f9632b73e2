package matching_test

import (
	"path/filepath"
	"testing"

	"recovr/internal/logging"
	"recovr/internal/matching"
	"recovr/internal/testsupport"
)

func TestUploadResolverProbesDirsInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	primary := testsupport.UploadDir(cfg)
	secondary := t.TempDir()
	cfg.Paths.UploadDirs = []string{primary, secondary}

	testsupport.WriteImage(t, filepath.Join(primary, "both.jpg"))
	testsupport.WriteImage(t, filepath.Join(secondary, "both.jpg"))
	testsupport.WriteImage(t, filepath.Join(secondary, "only-second.jpg"))

	resolver := matching.NewUploadResolver(cfg, logging.NewNop())

	path, ok := resolver.Resolve("/uploads/both.jpg")
	if !ok {
		t.Fatal("both.jpg not resolved")
	}
	if filepath.Dir(path) != primary {
		t.Errorf("resolved from %s, want first directory %s", filepath.Dir(path), primary)
	}

	path, ok = resolver.Resolve("only-second.jpg")
	if !ok || filepath.Dir(path) != secondary {
		t.Errorf("only-second.jpg resolved to %q, ok=%v", path, ok)
	}

	if _, ok := resolver.Resolve("missing.jpg"); ok {
		t.Error("missing file resolved")
	}
	if _, ok := resolver.Resolve(""); ok {
		t.Error("empty reference resolved")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/uploads/photo.jpg", want: "photo.jpg"},
		{in: "photo.jpg", want: "photo.jpg"},
		{in: "https://cdn.example.com/a/b/photo.jpg", want: "photo.jpg"},
		{in: "  /spaces/name.png  ", want: "name.png"},
	}
	for _, tt := range tests {
		if got := matching.FileName(tt.in); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
