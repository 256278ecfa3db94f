// Package config loads, normalizes, and validates darkroom configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DARKROOM_LIBRARY. The Config type centralizes the library location, export
// defaults, and logging knobs the CLI needs so they are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
