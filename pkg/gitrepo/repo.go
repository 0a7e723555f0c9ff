// Package gitrepo wraps the dotfiles repository. Pull and push are shell
// commands shown to the user and run through the shell executor; working
// tree inspection uses go-git directly.
package gitrepo

import (
	"context"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/shell"
)

// Options selects the remote side of pull and push
type Options struct {
	Remote        string
	Branch        string
	CommitMessage string
}

func (o Options) withDefaults() Options {
	if o.Remote == "" {
		o.Remote = "origin"
	}
	if o.Branch == "" {
		o.Branch = "master"
	}
	if o.CommitMessage == "" {
		o.CommitMessage = "iter"
	}
	return o
}

// Repo is a dotfiles repository on disk
type Repo struct {
	dir    string
	runner shell.Runner
	opts   Options
	logger zerolog.Logger
}

// New creates a Repo for dir. Nothing is checked until a method is called.
func New(dir string, runner shell.Runner, opts Options) *Repo {
	return &Repo{
		dir:    dir,
		runner: runner,
		opts:   opts.withDefaults(),
		logger: logging.GetLogger("gitrepo"),
	}
}

// Dir returns the repository directory
func (r *Repo) Dir() string {
	return r.dir
}

// IsRepository reports whether dir is a git working copy
func IsRepository(dir string) bool {
	_, err := git.PlainOpen(dir)
	return err == nil
}

// Pull fetches and merges the configured branch. It reports true only when
// the command ran and exited zero; a declined pull counts as not pulled.
func (r *Repo) Pull(ctx context.Context) bool {
	cmd := shell.Command{
		Line:        r.git("pull", r.opts.Remote, r.opts.Branch),
		Explanation: "Pulling " + r.opts.Remote + "/" + r.opts.Branch + " into the dotfiles repository...",
	}

	outcome, err := r.runner.Run(ctx, cmd)
	if err != nil {
		r.logger.Warn().Err(err).Str("dir", r.dir).Msg("Pull failed")
		return false
	}
	if outcome == shell.Declined {
		r.logger.Info().Str("dir", r.dir).Msg("Pull declined")
		return false
	}
	return true
}

// Push stages everything, commits and pushes. It does not pull first.
func (r *Repo) Push(ctx context.Context) error {
	line := r.git("add", "-A") +
		" && " + r.git("commit", "-m", r.opts.CommitMessage) +
		" && " + r.git("push", r.opts.Remote, r.opts.Branch)

	outcome, err := r.runner.Run(ctx, shell.Command{
		Line:        line,
		Explanation: "Committing and pushing the dotfiles repository...",
	})
	if err != nil {
		return err
	}
	if outcome == shell.Declined {
		r.logger.Info().Str("dir", r.dir).Msg("Push declined")
	}
	return nil
}

func (r *Repo) git(args ...string) string {
	return shell.Join(append([]string{"git", "-C", r.dir}, args...)...)
}

// Change is one path that differs from HEAD
type Change struct {
	Path     string
	Staging  string
	Worktree string
}

// Status is a snapshot of the working tree
type Status struct {
	Branch  string
	Clean   bool
	Changes []Change
}

// Status reads the working tree with go-git. Branch is empty for a
// repository without commits or with a detached HEAD.
func (r *Repo) Status() (*Status, error) {
	repo, err := git.PlainOpen(r.dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGitStatus, "cannot open git repository %s", r.dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrGitStatus, "failed to get worktree")
	}

	st, err := wt.Status()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrGitStatus, "failed to get status")
	}

	result := &Status{Clean: st.IsClean()}
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		result.Branch = head.Name().Short()
	}

	for path, fs := range st {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		result.Changes = append(result.Changes, Change{
			Path:     path,
			Staging:  describe(fs.Staging),
			Worktree: describe(fs.Worktree),
		})
	}
	sort.Slice(result.Changes, func(i, j int) bool {
		return result.Changes[i].Path < result.Changes[j].Path
	})

	return result, nil
}

func describe(code git.StatusCode) string {
	switch code {
	case git.Unmodified:
		return "unmodified"
	case git.Untracked:
		return "untracked"
	case git.Modified:
		return "modified"
	case git.Added:
		return "added"
	case git.Deleted:
		return "deleted"
	case git.Renamed:
		return "renamed"
	case git.Copied:
		return "copied"
	case git.UpdatedButUnmerged:
		return "unmerged"
	default:
		return "unknown"
	}
}
