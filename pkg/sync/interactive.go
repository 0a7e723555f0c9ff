package sync

import (
	"context"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/menu"
)

// Interactive resolves the repository if needed and lets the user pick a
// direction: overwrite local (pull then import) or overwrite remote
// (export then push).
func (e *Engine) Interactive(ctx context.Context) error {
	if e.prompter == nil {
		return errors.New(errors.ErrInternal, "interactive sync needs a prompter")
	}
	if !e.layout.HasRepository() {
		if _, err := e.PromptRepository(); err != nil {
			return err
		}
	}

	m := menu.New("",
		menu.Leaf("Overwrite local", e.OverwriteLocal),
		menu.Leaf("Overwrite remote", e.OverwriteRemote),
	)
	return m.Run(ctx, e.prompter, e.out)
}

// OverwriteLocal pulls and imports. When the pull fails or the working
// tree has local changes the user must confirm, defaulting to no.
func (e *Engine) OverwriteLocal(ctx context.Context) error {
	pulled := e.Pull(ctx)

	clean := true
	if repo, err := e.Repo(); err == nil {
		if st, err := repo.Status(); err != nil {
			e.logger.Warn().Err(err).Msg("Cannot read working tree status")
		} else {
			clean = st.Clean
		}
	}

	if !pulled || !clean {
		e.logger.Warn().Bool("pulled", pulled).Bool("clean", clean).Msg("Repository may have diverged")
		ok, err := e.prompter.Confirm(StashQuestion, false)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrSyncAborted, "import aborted by user")
		}
	}

	rep, err := e.RegisterRemotes(ctx)
	if err != nil {
		return err
	}
	rep.Print(e.out)
	return rep.Err()
}

// OverwriteRemote exports and pushes. The push is attempted even when some
// entries failed to export.
func (e *Engine) OverwriteRemote(ctx context.Context) error {
	rep, err := e.ExportLocals(ctx)
	if err != nil {
		return err
	}
	rep.Print(e.out)

	if err := e.Push(ctx); err != nil {
		return err
	}
	return rep.Err()
}
