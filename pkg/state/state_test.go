// pkg/state/state_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Test default state, key access and flush/load round trips

package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homesync", "state.toml")

	s, err := state.Load(path)
	require.NoError(t, err)

	first, err := s.FirstRun()
	require.NoError(t, err)
	assert.True(t, first)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestFlushRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.toml")

	s, err := state.Load(path)
	require.NoError(t, err)

	s.Set(state.KeyFirstRun, false)
	require.NoError(t, s.Flush())

	reloaded, err := state.Load(path)
	require.NoError(t, err)
	first, err := reloaded.FirstRun()
	require.NoError(t, err)
	assert.False(t, first)
}

func TestFlushOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("first_run = true\nstale = \"x\"\n"), 0644))

	s, err := state.Load(path)
	require.NoError(t, err)
	s.Set(state.KeyFirstRun, false)
	require.NoError(t, s.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first_run = false")
}

func TestGetMissingKeyFailsLoudly(t *testing.T) {
	s, err := state.Load(filepath.Join(t.TempDir(), "state.toml"))
	require.NoError(t, err)

	_, err = s.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStateKeyMissing))
}

func TestBoolWrongType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("first_run = \"yes\"\n"), 0644))

	s, err := state.Load(path)
	require.NoError(t, err)

	_, err = s.FirstRun()
	require.Error(t, err)
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("first_run = = ="), 0644))

	_, err := state.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStateLoad))
}

func TestFirstRunNeverResetAutomatically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(path, []byte("first_run = false\n"), 0644))

	s, err := state.Load(path)
	require.NoError(t, err)
	require.NoError(t, s.Flush())

	reloaded, err := state.Load(path)
	require.NoError(t, err)
	first, err := reloaded.FirstRun()
	require.NoError(t, err)
	assert.False(t, first)
}

func TestFlushFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")
	s, err := state.Load(path)
	require.NoError(t, err)

	// A directory where the file should go makes the final rename fail
	require.NoError(t, os.Mkdir(path, 0755))

	err = s.Flush()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStateWrite))
	assert.ErrorIs(t, err, errors.New(errors.ErrFileWrite, ""))
}
