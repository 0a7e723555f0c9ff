package testutil

import (
	"path/filepath"
	"testing"
)

// Environment is an isolated home, config and state directory set
type Environment struct {
	Home      string
	ConfigDir string
	StateHome string
}

// NewEnvironment points HOME, HOMESYNC_CONFIG_DIR and XDG_STATE_HOME at
// fresh temp directories for the duration of the test.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	env := &Environment{
		Home:      t.TempDir(),
		ConfigDir: filepath.Join(t.TempDir(), "config"),
		StateHome: t.TempDir(),
	}
	t.Setenv("HOME", env.Home)
	t.Setenv("HOMESYNC_CONFIG_DIR", env.ConfigDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(env.Home, ".config"))
	t.Setenv("XDG_STATE_HOME", env.StateHome)
	return env
}

// HomePath joins elements onto the isolated home
func (e *Environment) HomePath(elem ...string) string {
	return filepath.Join(append([]string{e.Home}, elem...)...)
}
