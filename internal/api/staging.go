package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"recovr/internal/config"
)

// Stager copies incoming images into the temp directory under collision-free
// names. Staged files are transient; callers must invoke the returned cleanup
// on every exit path.
type Stager struct {
	tempDir string
}

// NewStager builds a stager over the configured temp directory.
func NewStager(cfg *config.Config) *Stager {
	return &Stager{tempDir: cfg.Paths.TempDir}
}

// Stage writes the image to a uniquely named temp file, preserving the
// original extension. The cleanup func removes the file and is safe to call
// more than once.
func (s *Stager) Stage(image io.Reader, originalName string) (string, func(), error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create temp directory: %w", err)
	}

	name := uuid.New().String() + sanitizeExt(originalName)
	path := filepath.Join(s.tempDir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("create staged image: %w", err)
	}
	cleanup := func() { _ = os.Remove(path) }

	if _, err := io.Copy(file, image); err != nil {
		_ = file.Close()
		cleanup()
		return "", nil, fmt.Errorf("write staged image: %w", err)
	}
	if err := file.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close staged image: %w", err)
	}
	return path, cleanup, nil
}

// Persist writes the image to the destination directory under a unique name
// and returns the path. Unlike staged files, persisted images stick around
// for later processing.
func Persist(image io.Reader, destDir, originalName string) (string, error) {
	if destDir == "" {
		return "", fmt.Errorf("destination directory required")
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.New().String() + sanitizeExt(originalName)
	path := filepath.Join(destDir, name)

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(file, image); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

func sanitizeExt(originalName string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) < 2 || len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
