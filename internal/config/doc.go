// Package config loads, normalizes, and validates mealprep configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies MEALPREP_* environment overrides.
// The Config type centralizes every knob the CLI, the fetcher, and the web
// server need, so data locations and matching limits are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
