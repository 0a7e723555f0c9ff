// pkg/tracked/tracked_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test path derivation and lazy repository binding

package tracked_test

import (
	"testing"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/tracked"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathDerivation(t *testing.T) {
	l := tracked.NewLayout("/home/u", "settings")
	l.SetRepository("/repo")

	tests := []struct {
		rel         string
		homeFull    string
		repoFull    string
		internalDir string
		homeParent  string
		repoParent  string
		fileName    string
	}{
		{".vimrc", "/home/u/.vimrc", "/repo/.vimrc", "", "/home/u", "/repo", ".vimrc"},
		{"soft/scripts", "/home/u/soft/scripts", "/repo/soft/scripts", "soft", "/home/u/soft", "/repo/soft", "scripts"},
		{".config/nvim/init.vim", "/home/u/.config/nvim/init.vim", "/repo/.config/nvim/init.vim", ".config/nvim", "/home/u/.config/nvim", "/repo/.config/nvim", "init.vim"},
		{"./.bashrc", "/home/u/.bashrc", "/repo/.bashrc", "", "/home/u", "/repo", ".bashrc"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			p, err := l.Path(tt.rel)
			require.NoError(t, err)
			assert.Equal(t, tt.homeFull, p.HomeFull())
			assert.Equal(t, tt.repoFull, p.RepoFull())
			assert.Equal(t, tt.internalDir, p.InternalDir())
			assert.Equal(t, tt.homeParent, p.HomeParent())
			assert.Equal(t, tt.repoParent, p.RepoParent())
			assert.Equal(t, tt.fileName, p.FileName())
		})
	}
}

func TestPathRejectsBadInput(t *testing.T) {
	l := tracked.NewLayout("/home/u", "settings")

	for _, rel := range []string{"", "  ", "/etc/passwd", "..", "../outside", "a/../../b", "."} {
		_, err := l.Path(rel)
		require.Error(t, err, rel)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), rel)
	}
}

func TestPathSeesLaterRepository(t *testing.T) {
	l := tracked.NewLayout("/home/u", "settings")
	p, err := l.Path(".vimrc")
	require.NoError(t, err)
	s := l.Settings("/com/gexperts/Tilix/")

	assert.False(t, l.HasRepository())

	l.SetRepository("/first")
	assert.Equal(t, "/first/.vimrc", p.RepoFull())
	assert.Equal(t, "/first/settings", s.SnapshotDir())

	l.SetRepository("/second/")
	assert.Equal(t, "/second/.vimrc", p.RepoFull())
	assert.Equal(t, "/second", l.Repository())
}

func TestHomeAndRepoDifferOnlyInRoot(t *testing.T) {
	l := tracked.NewLayout("/home/u", "settings")
	l.SetRepository("/srv/dotfiles")

	paths, err := l.Paths([]string{".vimrc", "soft/scripts", ".oh-my-zsh"})
	require.NoError(t, err)
	for _, p := range paths {
		assert.Equal(t, "/home/u/"+p.RelativePath(), p.HomeFull())
		assert.Equal(t, "/srv/dotfiles/"+p.RelativePath(), p.RepoFull())
	}
}

func TestPathsStopsOnFirstBadEntry(t *testing.T) {
	l := tracked.NewLayout("/home/u", "settings")
	_, err := l.Paths([]string{".vimrc", "/abs"})
	require.Error(t, err)
}

func TestSettingsRepoFile(t *testing.T) {
	l := tracked.NewLayout("/home/u", "settings")
	l.SetRepository("/repo")

	s := l.Settings("/com/gexperts/Tilix/")
	assert.Equal(t, "/com/gexperts/Tilix/", s.Key())
	assert.Equal(t, "/repo/settings", s.SnapshotDir())
	assert.Equal(t, "/repo/settings/-com-gexperts-Tilix-.snapshot", s.RepoFile())
}
