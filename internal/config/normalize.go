package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeMatcher(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}

	if len(c.Paths.UploadDirs) == 0 {
		c.Paths.UploadDirs = defaultUploadDirs()
	}
	// Upload directories keep their configured order; the resolver probes them
	// first to last. Relative entries stay relative to the working directory.
	dirs := make([]string, 0, len(c.Paths.UploadDirs))
	for _, dir := range c.Paths.UploadDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		if strings.HasPrefix(dir, "~") {
			expanded, err := expandPath(dir)
			if err != nil {
				return fmt.Errorf("paths.upload_dirs: %w", err)
			}
			dir = expanded
		}
		dirs = append(dirs, dir)
	}
	c.Paths.UploadDirs = dirs
	return nil
}

func (c *Config) normalizeMatcher() error {
	if strings.TrimSpace(c.Matcher.PythonBinary) == "" {
		c.Matcher.PythonBinary = defaultPythonBinary
	}
	if strings.TrimSpace(c.Matcher.ScriptPath) == "" {
		c.Matcher.ScriptPath = defaultMatcherScript
	}
	if c.Matcher.TimeoutSeconds < 0 {
		c.Matcher.TimeoutSeconds = 0
	}
	return nil
}

func (c *Config) normalizeMatching() {
	if c.Matching.MinMatchCountItem <= 0 {
		c.Matching.MinMatchCountItem = defaultMinMatchCountItem
	}
	if c.Matching.MinMatchCountSearch <= 0 {
		c.Matching.MinMatchCountSearch = defaultMinMatchCountSearch
	}
	if c.Matching.DefaultThreshold <= 0 {
		c.Matching.DefaultThreshold = defaultThreshold
	}
	if c.Matching.ThresholdCap <= 0 {
		c.Matching.ThresholdCap = defaultThresholdCap
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
