// pkg/sync/interactive_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem, go-git for a dirty working tree
// PURPOSE: Test the overwrite-local/overwrite-remote flows and their gates

package sync_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/shell"
	"github.com/arthur-debert/homesync/pkg/sync"
	"github.com/arthur-debert/homesync/pkg/testutil"
)

func failPull(line string) error {
	if strings.Contains(line, " pull ") {
		return errors.New(errors.ErrCommandFailed, "exit status 1")
	}
	return nil
}

// Export never pulls before pushing. Commits that exist only on the remote
// are not merged and make the push fail; this is a known race.
func TestOverwriteRemoteDoesNotPullBeforePush(t *testing.T) {
	engine, e := newEngine(t, engineOpts{tracked: []string{".vimrc"}})
	resolve(t, engine, e)
	testutil.CreateFile(t, e.home, ".vimrc", "vim\n")

	require.NoError(t, engine.OverwriteRemote(context.Background()))

	for _, line := range e.runner.lines {
		assert.NotContains(t, line, " pull ")
	}
	require.NotEmpty(t, e.runner.lines)
	last := e.runner.lines[len(e.runner.lines)-1]
	assert.True(t, strings.HasSuffix(last, "push origin master"), last)
	assert.Contains(t, last, "commit -m iter")
	testutil.AssertSymlink(t, filepath.Join(e.home, ".vimrc"), filepath.Join(e.repo, ".vimrc"))
	assert.Contains(t, e.out.String(), "Export: 1 moved, 1 linked")
}

func TestOverwriteLocalFailedPull(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantAbort bool
	}{
		{"default answer aborts", "\n", true},
		{"no aborts", "n\n", true},
		{"yes continues", "y\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, e := newEngine(t, engineOpts{tracked: []string{".vimrc"}, input: tt.input})
			resolve(t, engine, e)
			testutil.CreateFile(t, e.repo, ".vimrc", "remote\n")
			e.runner.fail = failPull

			err := engine.OverwriteLocal(context.Background())
			assert.Contains(t, e.out.String(), sync.StashQuestion+" [y/N]: ")

			if tt.wantAbort {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrSyncAborted))
				testutil.AssertNoPath(t, filepath.Join(e.home, ".vimrc"))
				return
			}
			require.NoError(t, err)
			testutil.AssertSymlink(t, filepath.Join(e.home, ".vimrc"), filepath.Join(e.repo, ".vimrc"))
		})
	}
}

func TestOverwriteLocalCleanPullDoesNotAsk(t *testing.T) {
	engine, e := newEngine(t, engineOpts{tracked: []string{".vimrc"}})
	resolve(t, engine, e)
	testutil.CreateFile(t, e.repo, ".vimrc", "remote\n")

	require.NoError(t, engine.OverwriteLocal(context.Background()))

	assert.NotContains(t, e.out.String(), sync.StashQuestion)
	assert.Equal(t, shell.Join("git", "-C", e.repo, "pull", "origin", "master"), e.runner.lines[0])
	testutil.AssertSymlink(t, filepath.Join(e.home, ".vimrc"), filepath.Join(e.repo, ".vimrc"))
}

func TestOverwriteLocalDirtyTreeAsks(t *testing.T) {
	engine, e := newEngine(t, engineOpts{tracked: []string{".vimrc"}, input: "\n"})
	_, err := git.PlainInit(e.repo, false)
	require.NoError(t, err)
	resolve(t, engine, e)
	testutil.CreateFile(t, e.repo, ".vimrc", "uncommitted\n")

	err = engine.OverwriteLocal(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSyncAborted))
	assert.Contains(t, e.out.String(), sync.StashQuestion)
}

func TestInteractivePromptsForRepository(t *testing.T) {
	engine, e := newEngine(t, engineOpts{tracked: []string{".vimrc"}, input: "\n2\n"})
	testutil.CreateFile(t, e.home, ".vimrc", "vim\n")

	require.NoError(t, engine.Interactive(context.Background()))

	out := e.out.String()
	assert.Contains(t, out, sync.RepositoryQuestion+" ["+e.repo+"]: ")
	assert.Contains(t, out, "[1] Overwrite local")
	assert.Contains(t, out, "[2] Overwrite remote")
	assert.Equal(t, e.repo, engine.Layout().Repository())
	testutil.AssertSymlink(t, filepath.Join(e.home, ".vimrc"), filepath.Join(e.repo, ".vimrc"))
}

func TestInteractiveAsksRepositoryOnce(t *testing.T) {
	engine, e := newEngine(t, engineOpts{input: "1\n"})
	resolve(t, engine, e)

	require.NoError(t, engine.Interactive(context.Background()))
	assert.NotContains(t, e.out.String(), sync.RepositoryQuestion)
}

func TestInteractiveBadRepositoryAborts(t *testing.T) {
	engine, e := newEngine(t, engineOpts{tracked: []string{".vimrc"}, input: "/definitely/not/here\n"})
	testutil.CreateFile(t, e.home, ".vimrc", "vim\n")

	err := engine.Interactive(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoNotFound))
	assert.Empty(t, e.runner.lines)
	testutil.AssertNotSymlink(t, filepath.Join(e.home, ".vimrc"))
}
