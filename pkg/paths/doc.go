// Package paths provides centralized path handling for homesync.
//
// It resolves the XDG configuration directory used for the persisted state
// and the user configuration file, and expands ~ in user-supplied paths.
//
// # Environment Variables
//
//   - HOME: home directory used for ~ expansion and tracked paths
//   - HOMESYNC_CONFIG_DIR: override for $XDG_CONFIG_HOME/homesync
//   - XDG_CONFIG_HOME: standard XDG config base directory
package paths
