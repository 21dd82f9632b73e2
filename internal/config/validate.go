package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatcher(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatcher() error {
	if c.Matcher.PythonBinary == "" {
		return errors.New("matcher.python_binary must be set")
	}
	if c.Matcher.ScriptPath == "" {
		return errors.New("matcher.script_path must be set")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MinMatchCountSearch > c.Matching.MinMatchCountItem {
		return errors.New("matching.min_match_count_search must not exceed matching.min_match_count_item")
	}
	if c.Matching.DefaultThreshold <= 0 || c.Matching.DefaultThreshold > 1 {
		return errors.New("matching.default_threshold must be between 0 and 1")
	}
	if c.Matching.ThresholdCap <= 0 || c.Matching.ThresholdCap > 1 {
		return errors.New("matching.threshold_cap must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
