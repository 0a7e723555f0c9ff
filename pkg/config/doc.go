// Package config handles configuration management for homesync.
// It layers the embedded TOML defaults, the user's config.toml and
// HOMESYNC_ environment variables.
package config
