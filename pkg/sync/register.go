package sync

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/fsutil"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/shell"
	"github.com/arthur-debert/homesync/pkg/tracked"
)

// RegisterRemotes links every tracked path present in the repository into
// home and loads the desktop settings snapshots the repository holds.
// Anything already at a home location is moved to the local backup
// directory first; nothing is deleted.
func (e *Engine) RegisterRemotes(ctx context.Context) (*Report, error) {
	if err := e.ensureRepository(); err != nil {
		return nil, err
	}
	firstRun, err := e.state.FirstRun()
	if err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(e.logger, "import")
	defer done()

	rep := newReport("Import")
	for _, p := range e.paths {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		e.registerPath(ctx, rep, p, firstRun)
	}
	for _, s := range e.settings {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		snap, err := fsutil.Inspect(s.RepoFile())
		if err != nil {
			rep.fail(s.Key(), err)
			continue
		}
		if !snap.Exists {
			e.logger.Debug().Str("key", s.Key()).Msg("No snapshot in repository, skipping")
			rep.Skipped++
			continue
		}
		if err := e.loadSettings(ctx, rep, s); err != nil {
			rep.fail(s.Key(), err)
		}
	}
	return rep, nil
}

func (e *Engine) registerPath(ctx context.Context, rep *Report, p tracked.Path, firstRun bool) {
	item := p.RelativePath()
	logger := e.logger.With().Str("path", item).Logger()

	repo, err := fsutil.Inspect(p.RepoFull())
	if err != nil {
		rep.fail(item, err)
		return
	}
	if !repo.Exists {
		logger.Debug().Msg("Not present in repository, skipping")
		rep.Skipped++
		return
	}

	if e.isHistory(p) {
		if !firstRun {
			logger.Debug().Msg("History file is only copied on first run")
			rep.Skipped++
			return
		}
		if !e.backupHome(ctx, rep, p) {
			return
		}
		cmd := copyCommand(p.RepoFull(), p.HomeFull())
		cmd.Explanation = "Copying shell history from the repository..."
		if e.run(ctx, rep, item, cmd) {
			rep.Copied++
		}
		return
	}

	if fsutil.LinksTo(p.HomeFull(), p.RepoFull()) {
		logger.Debug().Msg("Already linked, skipping")
		rep.Skipped++
		return
	}

	if !e.backupHome(ctx, rep, p) {
		return
	}

	if !fsutil.IsDir(p.HomeParent()) {
		if !e.run(ctx, rep, item, mkdirCommand(p.HomeParent())) {
			return
		}
	}

	if e.run(ctx, rep, item, linkCommand(p.RepoFull(), p.HomeFull())) {
		rep.Linked++
		logger.Info().Str("target", p.RepoFull()).Msg("Linked")
	}
}

// backupHome moves whatever is at the home location into the local backup
// directory. It reports false when the entry should not be processed
// further.
func (e *Engine) backupHome(ctx context.Context, rep *Report, p tracked.Path) bool {
	item := p.RelativePath()
	home, err := fsutil.Inspect(p.HomeFull())
	if err != nil {
		rep.fail(item, err)
		return false
	}
	if !home.Exists {
		return true
	}
	backup := fsutil.FreeName(filepath.Join(e.backupLocal, item))
	cmd := moveCommand(p.HomeFull(), backup)
	cmd.Explanation = "Backing up local " + item + "..."
	if !e.run(ctx, rep, item, cmd) {
		return false
	}
	rep.BackedUp++
	return true
}

// LoadSettings restores one desktop settings snapshot. A missing snapshot
// is an ErrSnapshotMissing error.
func (e *Engine) LoadSettings(ctx context.Context, s tracked.SettingsEntry) error {
	if err := e.ensureRepository(); err != nil {
		return err
	}
	rep := newReport("Load settings")
	if err := e.loadSettings(ctx, rep, s); err != nil {
		return err
	}
	return rep.Err()
}

func (e *Engine) loadSettings(ctx context.Context, rep *Report, s tracked.SettingsEntry) error {
	snap, err := fsutil.Inspect(s.RepoFile())
	if err != nil {
		return err
	}
	if !snap.Exists {
		return errors.Newf(errors.ErrSnapshotMissing, "no snapshot for %s", s.Key()).
			WithDetail("path", s.RepoFile())
	}

	cmd := shell.Command{
		Line:        shell.Join(e.tool, "load", s.Key()) + " < " + shell.Quote(s.RepoFile()),
		Explanation: "Restoring desktop settings " + s.Key() + "...",
	}
	if e.run(ctx, rep, s.Key(), cmd) {
		rep.Loaded++
	}
	return nil
}
