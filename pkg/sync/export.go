package sync

import (
	"context"
	"path/filepath"

	"github.com/arthur-debert/homesync/pkg/fsutil"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/shell"
	"github.com/arthur-debert/homesync/pkg/tracked"
)

// ExportLocals moves every tracked home path into the repository, links it
// back, and dumps desktop settings snapshots. Per-entry failures are
// recorded in the report and do not stop the pass; the returned error is
// only for problems that prevent the pass from starting.
func (e *Engine) ExportLocals(ctx context.Context) (*Report, error) {
	if err := e.ensureRepository(); err != nil {
		return nil, err
	}
	firstRun, err := e.state.FirstRun()
	if err != nil {
		return nil, err
	}

	done := logging.LogOperationStart(e.logger, "export")
	defer done()

	rep := newReport("Export")
	for _, p := range e.paths {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		e.exportPath(ctx, rep, p, firstRun)
	}
	for _, s := range e.settings {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		e.dumpSettings(ctx, rep, s)
	}
	return rep, nil
}

func (e *Engine) exportPath(ctx context.Context, rep *Report, p tracked.Path, firstRun bool) {
	item := p.RelativePath()
	logger := e.logger.With().Str("path", item).Logger()

	home, err := fsutil.Inspect(p.HomeFull())
	if err != nil {
		rep.fail(item, err)
		return
	}
	if !home.Exists {
		logger.Debug().Msg("Not present in home, skipping")
		rep.Skipped++
		return
	}
	if home.IsSymlink {
		logger.Debug().Msg("Already a symlink, skipping")
		rep.Skipped++
		return
	}

	if p.InternalDir() != "" && !fsutil.IsDir(p.RepoParent()) {
		if !e.run(ctx, rep, item, mkdirCommand(p.RepoParent())) {
			return
		}
	}

	if e.isHistory(p) {
		if !firstRun {
			logger.Debug().Msg("History file is only copied on first run")
			rep.Skipped++
			return
		}
		cmd := copyCommand(p.HomeFull(), p.RepoFull())
		cmd.Explanation = "Copying shell history into the repository..."
		if e.run(ctx, rep, item, cmd) {
			rep.Copied++
		}
		return
	}

	repo, err := fsutil.Inspect(p.RepoFull())
	if err != nil {
		rep.fail(item, err)
		return
	}
	if repo.Exists {
		backup := fsutil.FreeName(filepath.Join(e.backupRemote, item))
		cmd := moveCommand(p.RepoFull(), backup)
		cmd.Explanation = "Backing up the repository copy of " + item + "..."
		if !e.run(ctx, rep, item, cmd) {
			return
		}
		rep.BackedUp++
	}

	if !e.run(ctx, rep, item, moveCommand(p.HomeFull(), p.RepoFull())) {
		return
	}
	rep.Moved++

	if e.run(ctx, rep, item, linkCommand(p.RepoFull(), p.HomeFull())) {
		rep.Linked++
		logger.Info().Str("target", p.RepoFull()).Msg("Exported")
	}
}

func (e *Engine) dumpSettings(ctx context.Context, rep *Report, s tracked.SettingsEntry) {
	if !fsutil.IsDir(s.SnapshotDir()) {
		if !e.run(ctx, rep, s.Key(), mkdirCommand(s.SnapshotDir())) {
			return
		}
	}
	cmd := shell.Command{
		Line:        shell.Join(e.tool, "dump", s.Key()) + " > " + shell.Quote(s.RepoFile()),
		Explanation: "Saving desktop settings " + s.Key() + "...",
	}
	if e.run(ctx, rep, s.Key(), cmd) {
		rep.Dumped++
	}
}
