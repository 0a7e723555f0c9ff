package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/homesync/pkg/errors"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for homesync
	EnvConfigDir = "HOMESYNC_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names. These are part of the on-disk contract and are not
// user-configurable.
const (
	// AppDirName is the directory name for homesync-specific files
	AppDirName = "homesync"

	// StateFileName is the name of the persisted state file
	StateFileName = "state.toml"

	// ConfigFileName is the name of the user configuration file
	ConfigFileName = "config.toml"
)

// HomeDir returns the user's home directory, preferring $HOME
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "failed to determine home directory")
	}
	return home, nil
}

// ConfigDir returns the homesync configuration directory
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return ExpandHome(dir)
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(xdg.ConfigHome, AppDirName)
}

// StateFilePath returns the location of the persisted state file
func StateFilePath() string {
	return filepath.Join(ConfigDir(), StateFileName)
}

// ConfigFilePath returns the location of the user configuration file
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// ExpandHome expands a leading ~ to the user's home directory.
// ~user forms are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := HomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// Absolute expands ~ and returns a cleaned absolute path
func Absolute(path string) (string, error) {
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}
	return abs, nil
}
