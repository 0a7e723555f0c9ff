// Package sync keeps dotfiles in a git repository and links them from the
// home directory.
//
// Export moves real files from home into the repository and leaves
// symlinks behind. Import creates those symlinks on a machine where the
// repository has been cloned, backing up whatever was in the way. Both
// directions skip entries that are already in their final shape, so running
// either twice does nothing the second time. Every filesystem change and
// every git command goes through a shell.Runner, which shows it to the user
// and may ask for confirmation; a declined command skips that one step.
//
// The shell history file is special: it is copied once, on the first run,
// and otherwise left alone, because it is appended to by live shells.
package sync

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/fsutil"
	"github.com/arthur-debert/homesync/pkg/gitrepo"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/paths"
	"github.com/arthur-debert/homesync/pkg/prompt"
	"github.com/arthur-debert/homesync/pkg/shell"
	"github.com/arthur-debert/homesync/pkg/tracked"
)

// RepositoryQuestion is asked when no repository has been chosen yet
const RepositoryQuestion = "Path to a git repo for dotfiles"

// StashQuestion is asked before importing over a repository that failed
// to pull or has local changes
const StashQuestion = "Repo seems to need stashing. Continue anyway?"

// FirstRunner reports whether this is the machine's first run
type FirstRunner interface {
	FirstRun() (bool, error)
}

// Options configures an Engine
type Options struct {
	Layout *tracked.Layout
	// Tracked are paths relative to home, processed in order
	Tracked []string
	// SettingsKeys are desktop settings subtrees to snapshot
	SettingsKeys []string
	// SettingsTool dumps and loads settings keys, e.g. dconf
	SettingsTool string
	// HistoryFile is the file name that is copied once instead of linked
	HistoryFile string
	// BackupLocal receives home files displaced by import
	BackupLocal string
	// BackupRemote receives repository files displaced by export
	BackupRemote string
	// DefaultRepository is used when no explicit repository is given
	DefaultRepository string
	Git               gitrepo.Options

	Runner   shell.Runner
	Prompter prompt.Prompter
	State    FirstRunner
	Out      io.Writer
}

// Engine runs export, import and git operations against one repository
type Engine struct {
	layout       *tracked.Layout
	paths        []tracked.Path
	settings     []tracked.SettingsEntry
	tool         string
	historyFile  string
	backupLocal  string
	backupRemote string
	defaultRepo  string
	gitOpts      gitrepo.Options

	runner   shell.Runner
	prompter prompt.Prompter
	state    FirstRunner
	out      io.Writer
	logger   zerolog.Logger
}

// NewEngine validates the tracked paths and creates an engine. The
// repository is not resolved yet.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Layout == nil {
		return nil, errors.New(errors.ErrInternal, "engine needs a layout")
	}
	if opts.Runner == nil || opts.State == nil {
		return nil, errors.New(errors.ErrInternal, "engine needs a runner and a state")
	}

	tp, err := opts.Layout.Paths(opts.Tracked)
	if err != nil {
		return nil, err
	}

	settings := make([]tracked.SettingsEntry, len(opts.SettingsKeys))
	for i, key := range opts.SettingsKeys {
		settings[i] = opts.Layout.Settings(key)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	tool := opts.SettingsTool
	if tool == "" {
		tool = "dconf"
	}

	return &Engine{
		layout:       opts.Layout,
		paths:        tp,
		settings:     settings,
		tool:         tool,
		historyFile:  opts.HistoryFile,
		backupLocal:  paths.ExpandHome(opts.BackupLocal),
		backupRemote: paths.ExpandHome(opts.BackupRemote),
		defaultRepo:  opts.DefaultRepository,
		gitOpts:      opts.Git,
		runner:       opts.Runner,
		prompter:     opts.Prompter,
		state:        opts.State,
		out:          out,
		logger:       logging.GetLogger("sync"),
	}, nil
}

// Paths returns the tracked paths in processing order
func (e *Engine) Paths() []tracked.Path {
	return e.paths
}

// Settings returns the desktop settings entries
func (e *Engine) Settings() []tracked.SettingsEntry {
	return e.settings
}

// Layout returns the layout the engine's paths were created from
func (e *Engine) Layout() *tracked.Layout {
	return e.layout
}

// ResolveRepository picks explicit when non-empty, otherwise def, expands
// ~ and makes the result absolute. It fails without side effects unless
// the result is an existing directory; on success the location is shared
// by every tracked path.
func (e *Engine) ResolveRepository(explicit, def string) (string, error) {
	candidate := explicit
	if candidate == "" {
		candidate = def
	}
	if candidate == "" {
		return "", errors.New(errors.ErrRepoNotFound, "no repository path given")
	}

	dir, err := paths.Absolute(candidate)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRepoNotFound, "invalid repository path %s", candidate)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrRepoNotFound, "repository %s does not exist", dir).
			WithDetail("path", dir)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrRepoNotFound, "repository %s is not a directory", dir).
			WithDetail("path", dir)
	}

	if !gitrepo.IsRepository(dir) {
		e.logger.Warn().Str("path", dir).Msg("Repository directory is not a git working copy")
	}

	e.layout.SetRepository(dir)
	e.logger.Info().Str("path", dir).Msg("Repository resolved")
	return dir, nil
}

// PromptRepository asks for the repository path, offering the default
func (e *Engine) PromptRepository() (string, error) {
	if e.prompter == nil {
		return e.ResolveRepository("", e.defaultRepo)
	}
	answer, err := e.prompter.Ask(RepositoryQuestion, e.defaultRepo)
	if err != nil {
		return "", err
	}
	return e.ResolveRepository(answer, e.defaultRepo)
}

func (e *Engine) ensureRepository() error {
	repo := e.layout.Repository()
	if repo == "" {
		return errors.New(errors.ErrRepoNotFound, "repository location has not been resolved")
	}
	if !fsutil.IsDir(repo) {
		return errors.Newf(errors.ErrRepoNotFound, "repository %s is not a directory", repo)
	}
	return nil
}

// Repo returns the git repository at the resolved location
func (e *Engine) Repo() (*gitrepo.Repo, error) {
	if err := e.ensureRepository(); err != nil {
		return nil, err
	}
	return gitrepo.New(e.layout.Repository(), e.runner, e.gitOpts), nil
}

// Pull pulls the repository; false when unresolved, declined or failed
func (e *Engine) Pull(ctx context.Context) bool {
	repo, err := e.Repo()
	if err != nil {
		e.logger.Error().Err(err).Msg("Cannot pull")
		return false
	}
	return repo.Pull(ctx)
}

// Push commits and pushes the repository. It never pulls first, so
// commits that exist only on the remote make the push fail.
func (e *Engine) Push(ctx context.Context) error {
	repo, err := e.Repo()
	if err != nil {
		return err
	}
	return repo.Push(ctx)
}

// run executes one step and reports whether it actually happened
func (e *Engine) run(ctx context.Context, rep *Report, item string, cmd shell.Command) bool {
	outcome, err := e.runner.Run(ctx, cmd)
	if err != nil {
		e.logger.Error().Err(err).Str("item", item).Str("command", cmd.Line).Msg("Step failed")
		rep.fail(item, err)
		return false
	}
	if outcome == shell.Declined {
		rep.Declined++
		return false
	}
	return true
}

func (e *Engine) isHistory(p tracked.Path) bool {
	return e.historyFile != "" && p.FileName() == e.historyFile
}

func mkdirCommand(dir string) shell.Command {
	return shell.Command{
		Line:   shell.Join("mkdir", "-p", dir),
		Action: func() error { return mkdirAll(dir) },
	}
}

func mkdirAll(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", dir)
	}
	return nil
}

func moveCommand(src, dst string) shell.Command {
	return shell.Command{
		Line: shell.Join("mv", src, dst),
		Action: func() error {
			if err := mkdirAll(filepath.Dir(dst)); err != nil {
				return err
			}
			return fsutil.Move(src, dst)
		},
	}
}

func copyCommand(src, dst string) shell.Command {
	return shell.Command{
		Line: shell.Join("cp", "-a", src, dst),
		Action: func() error {
			if err := mkdirAll(filepath.Dir(dst)); err != nil {
				return err
			}
			return fsutil.Copy(src, dst)
		},
	}
}

func linkCommand(target, link string) shell.Command {
	return shell.Command{
		Line: shell.Join("ln", "-s", target, link),
		Action: func() error {
			if err := os.Symlink(target, link); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s to %s", link, target)
			}
			return nil
		},
	}
}
