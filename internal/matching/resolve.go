package matching

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"recovr/internal/config"
	"recovr/internal/logging"
)

// PathResolver converts a catalog image reference into a filesystem path the
// oracle can open. Implementations exist per storage backend; the pipeline
// only sees the interface.
type PathResolver interface {
	// Resolve returns the local path for an image reference, or false when no
	// usable file exists.
	Resolve(imageURL string) (string, bool)
}

// UploadResolver probes an ordered list of upload directories for the file
// named by an image URL and returns the canonical form of the first hit.
type UploadResolver struct {
	dirs   []string
	logger *slog.Logger
}

// NewUploadResolver builds a resolver over the configured upload directories.
func NewUploadResolver(cfg *config.Config, logger *slog.Logger) *UploadResolver {
	return &UploadResolver{
		dirs:   append([]string(nil), cfg.Paths.UploadDirs...),
		logger: logging.WithComponent(logger, "resolver"),
	}
}

// Resolve implements PathResolver. Directories are tried in configured order;
// a miss in every directory excludes the image from the run with a warning.
func (r *UploadResolver) Resolve(imageURL string) (string, bool) {
	fileName := FileName(imageURL)
	if fileName == "" {
		return "", false
	}

	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, fileName)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		absolute, err := filepath.Abs(candidate)
		if err != nil {
			absolute = candidate
		}
		if canonical, err := filepath.EvalSymlinks(absolute); err == nil {
			return canonical, true
		}
		return absolute, true
	}

	r.logger.Warn("image file not found in upload directories",
		logging.String("image_url", imageURL),
		logging.Int("dirs_tried", len(r.dirs)))
	return "", false
}

// FileName extracts the trailing file name from an image URL or path.
func FileName(imageURL string) string {
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return ""
	}
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return filepath.Base(trimmed)
}
