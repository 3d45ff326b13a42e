// Package config loads, normalizes, and validates diareval configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DIAREVAL_LOG_LEVEL and DIAREVAL_WAV_DIR. The Config type centralizes every
// knob the CLI and batch evaluator need so options are threaded explicitly
// through each call instead of living in package state.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
