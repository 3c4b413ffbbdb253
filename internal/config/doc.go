// Package config loads, normalizes, and validates asciivid configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks for the
// ffmpeg toolchain. The Config type centralizes every knob the CLI needs, from
// the output history backend to converter tuning, so callers receive sanitized
// paths and clear validation errors in one pass.
package config
