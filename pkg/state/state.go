// Package state persists the small amount of cross-run memory homesync
// needs, most importantly whether this machine has completed a first run.
//
// The state is loaded once when the process starts and flushed once when an
// interactive session completes cleanly. A crash or an error exit leaves the
// previous file in place, so the next run behaves as if this one never
// happened. The --push and --pull paths never flush.
package state

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/fsutil"
	"github.com/arthur-debert/homesync/pkg/logging"
)

// KeyFirstRun is true until a first interactive session completes
const KeyFirstRun = "first_run"

// State is a string-keyed map backed by a TOML file
type State struct {
	path   string
	values map[string]interface{}
}

// Load reads the state file at path. When no file exists the default
// state {first_run = true} is returned; nothing is written until Flush.
func Load(path string) (*State, error) {
	logger := logging.GetLogger("state")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debug().Str("path", path).Msg("No state file, using defaults")
		return &State{path: path, values: defaults()}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateLoad, "failed to read state file %s", path)
	}

	values := make(map[string]interface{})
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStateLoad, "failed to parse state file %s", path)
	}

	logger.Debug().Str("path", path).Strs("keys", sortedKeys(values)).Msg("Loaded state")
	return &State{path: path, values: values}, nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{KeyFirstRun: true}
}

// Path returns the file the state is flushed to
func (s *State) Path() string {
	return s.path
}

// Get returns the value stored under key. A missing key is a programming
// error and is reported as ErrStateKeyMissing rather than defaulted.
func (s *State) Get(key string) (interface{}, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, errors.Newf(errors.ErrStateKeyMissing, "state has no key %q", key).
			WithDetail("path", s.path)
	}
	return v, nil
}

// Bool returns a boolean value
func (s *State) Bool(key string) (bool, error) {
	v, err := s.Get(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Newf(errors.ErrStateLoad, "state key %q is %T, not bool", key, v)
	}
	return b, nil
}

// FirstRun reports the first_run flag
func (s *State) FirstRun() (bool, error) {
	return s.Bool(KeyFirstRun)
}

// Set stores value under key in memory
func (s *State) Set(key string, value interface{}) {
	s.values[key] = value
}

// Flush writes the whole map to disk, replacing any previous content
func (s *State) Flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to create state directory for %s", s.path)
	}

	data, err := toml.Marshal(s.values)
	if err != nil {
		return errors.Wrap(err, errors.ErrStateWrite, "failed to encode state")
	}

	if err := fsutil.WriteAtomic(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrStateWrite, "failed to write state file %s", s.path)
	}

	logger := logging.GetLogger("state")
	logger.Debug().Str("path", s.path).Msg("State flushed")
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
