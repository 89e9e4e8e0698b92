// Package config loads, normalizes, and validates traitvote configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRAITVOTE_DATA_DIR. The Config type centralizes the voting panel, the
// proposal quorum, aggregation concurrency, run-history storage and logging
// knobs so the CLI resolves every setting in one pass.
//
// Always obtain settings through this package so downstream code receives a
// sanitized panel, expanded paths, and clear validation errors.
package config
