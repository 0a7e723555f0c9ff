package homesync

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/homesync/pkg/config"
	"github.com/arthur-debert/homesync/pkg/gitrepo"
	"github.com/arthur-debert/homesync/pkg/installer"
	"github.com/arthur-debert/homesync/pkg/menu"
	"github.com/arthur-debert/homesync/pkg/paths"
	"github.com/arthur-debert/homesync/pkg/prompt"
	"github.com/arthur-debert/homesync/pkg/shell"
	"github.com/arthur-debert/homesync/pkg/state"
	"github.com/arthur-debert/homesync/pkg/sync"
	"github.com/arthur-debert/homesync/pkg/tracked"
)

type rootOptions struct {
	verbosity  int
	push       bool
	pull       bool
	yes        bool
	repo       string
	configPath string
}

// app holds everything one invocation needs, built once per command run
type app struct {
	cfg      *config.Config
	state    *state.State
	console  *prompt.Console
	executor *shell.Executor
	engine   *sync.Engine
	out      io.Writer
}

func newApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	st, err := state.Load(paths.StateFilePath())
	if err != nil {
		return nil, err
	}

	home, err := paths.HomeDir()
	if err != nil {
		return nil, err
	}

	out := cmd.OutOrStdout()
	console := prompt.NewConsole(cmd.InOrStdin(), out)

	mode := shell.Interactive
	if opts.yes {
		mode = shell.Silent
	}
	executor := shell.NewExecutor(shell.Options{
		Mode:        mode,
		Interpreter: cfg.Shell.Interpreter,
		Confirmer:   console,
		Stdin:       cmd.InOrStdin(),
		Stdout:      out,
		Stderr:      cmd.ErrOrStderr(),
	})

	engine, err := sync.NewEngine(sync.Options{
		Layout:            tracked.NewLayout(home, cfg.Settings.Dir),
		Tracked:           cfg.Sync.Tracked,
		SettingsKeys:      cfg.Settings.Keys,
		SettingsTool:      cfg.Settings.Tool,
		HistoryFile:       cfg.Sync.HistoryFile,
		BackupLocal:       cfg.Sync.BackupLocal,
		BackupRemote:      cfg.Sync.BackupRemote,
		DefaultRepository: cfg.Repository.Path,
		Git: gitrepo.Options{
			Remote:        cfg.Repository.Remote,
			Branch:        cfg.Repository.Branch,
			CommitMessage: cfg.Repository.CommitMessage,
		},
		Runner:   executor,
		Prompter: console,
		State:    st,
		Out:      out,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		state:    st,
		console:  console,
		executor: executor,
		engine:   engine,
		out:      out,
	}, nil
}

// resolveRepository resolves --repo, falling back to the configured path
func (a *app) resolveRepository(explicit string) (string, error) {
	return a.engine.ResolveRepository(explicit, a.cfg.Repository.Path)
}

func (a *app) mainMenu() (*menu.Menu, error) {
	catalog, err := installer.Load(a.cfg.Installer.Catalog)
	if err != nil {
		return nil, err
	}
	return menu.New(MsgMainMenu,
		menu.Submenu(MsgMenuBootstrap, installer.Menu(catalog, a.executor, a.out)),
		menu.Leaf(MsgMenuSync, a.engine.Interactive),
	), nil
}
