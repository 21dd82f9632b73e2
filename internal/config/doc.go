// Package config loads, normalizes, and validates RECOVR configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and matching pipeline need: storage directories, the external matcher
// invocation, ranking thresholds, and log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
