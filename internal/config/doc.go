// Package config loads, normalizes, and validates scenesync configuration.
//
// Configuration lives in a TOML file (default ~/.config/scenesync/config.toml,
// falling back to ./scenesync.toml); absent files yield defaults. Path fields
// are tilde-expanded and made absolute during load.
package config
