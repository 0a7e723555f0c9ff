package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	hserrors "github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/paths"
)

// EnvPrefix is the prefix of environment overrides. Sections and keys are
// separated by a double underscore: HOMESYNC_REPOSITORY__PATH.
const EnvPrefix = "HOMESYNC_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Repository holds the dotfiles repository settings
type Repository struct {
	Path          string `koanf:"path"`
	Remote        string `koanf:"remote"`
	Branch        string `koanf:"branch"`
	CommitMessage string `koanf:"commit_message"`
}

// Sync holds the tracked paths and backup locations
type Sync struct {
	Tracked      []string `koanf:"tracked"`
	HistoryFile  string   `koanf:"history_file"`
	BackupLocal  string   `koanf:"backup_local"`
	BackupRemote string   `koanf:"backup_remote"`
}

// Settings holds desktop settings snapshot configuration
type Settings struct {
	Tool string   `koanf:"tool"`
	Dir  string   `koanf:"dir"`
	Keys []string `koanf:"keys"`
}

// Shell holds shell execution settings
type Shell struct {
	Interpreter string `koanf:"interpreter"`
}

// Installer holds installer menu settings
type Installer struct {
	// Catalog is an optional path to a YAML catalog replacing the embedded one
	Catalog string `koanf:"catalog"`
}

// Config is the fully merged homesync configuration
type Config struct {
	Repository Repository `koanf:"repository"`
	Sync       Sync       `koanf:"sync"`
	Settings   Settings   `koanf:"settings"`
	Shell      Shell      `koanf:"shell"`
	Installer  Installer  `koanf:"installer"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load merges the embedded defaults, the user config file and environment
// overrides, in that order. An empty userPath means the XDG location. A
// missing user file is not an error.
func Load(userPath string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, hserrors.Wrap(err, hserrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load user config if it exists
	if userPath == "" {
		userPath = paths.ConfigFilePath()
	}
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, hserrors.Wrapf(err, hserrors.ErrConfigLoad, "failed to load user config from %s", userPath)
		}
		logger.Debug().Str("path", userPath).Msg("Loaded user config")
	}

	// 3. Load env vars
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, hserrors.Wrap(err, hserrors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, hserrors.Wrap(err, hserrors.ErrConfigInvalid, "failed to unmarshal configuration")
	}

	// 5. Post-process
	if err := postProcessConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func postProcessConfig(cfg *Config) error {
	tracked := make([]string, 0, len(cfg.Sync.Tracked))
	for _, p := range cfg.Sync.Tracked {
		if p = strings.TrimSpace(p); p != "" {
			tracked = append(tracked, p)
		}
	}
	cfg.Sync.Tracked = tracked

	if cfg.Repository.Branch == "" || cfg.Repository.Remote == "" {
		return hserrors.New(hserrors.ErrConfigInvalid, "repository remote and branch must be set")
	}
	if cfg.Settings.Dir == "" || strings.ContainsRune(cfg.Settings.Dir, '/') {
		return hserrors.Newf(hserrors.ErrConfigInvalid, "settings dir must be a single directory name, got %q", cfg.Settings.Dir)
	}
	if cfg.Shell.Interpreter == "" {
		return hserrors.New(hserrors.ErrConfigInvalid, "shell interpreter must be set")
	}
	return nil
}

// DefaultContent returns the embedded default configuration
func DefaultContent() string {
	return string(defaultConfig)
}
