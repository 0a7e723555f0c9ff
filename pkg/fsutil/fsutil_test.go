// pkg/fsutil/fsutil_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Test inspection, move, copy, free-name and atomic write helpers

package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	link := filepath.Join(dir, "link")
	dangling := filepath.Join(dir, "dangling")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	require.NoError(t, os.Symlink(file, link))
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), dangling))

	tests := []struct {
		name string
		path string
		want fsutil.Entry
	}{
		{"missing", filepath.Join(dir, "missing"), fsutil.Entry{}},
		{"regular file", file, fsutil.Entry{Exists: true}},
		{"directory", dir, fsutil.Entry{Exists: true, IsDir: true}},
		{"symlink", link, fsutil.Entry{Exists: true, IsSymlink: true}},
		{"dangling symlink still exists", dangling, fsutil.Entry{Exists: true, IsSymlink: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fsutil.Inspect(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLinksTo(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.WriteFile(target, nil, 0644))

	abs := filepath.Join(dir, "abs")
	rel := filepath.Join(dir, "rel")
	require.NoError(t, os.Symlink(target, abs))
	require.NoError(t, os.Symlink("target", rel))

	assert.True(t, fsutil.LinksTo(abs, target))
	assert.True(t, fsutil.LinksTo(rel, target))
	assert.False(t, fsutil.LinksTo(abs, filepath.Join(dir, "other")))
	assert.False(t, fsutil.LinksTo(target, target), "regular file is not a link")
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0600))

	require.NoError(t, fsutil.Move(src, dst))

	_, err := os.Stat(src)
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	t.Run("refuses_existing_destination", func(t *testing.T) {
		other := filepath.Join(dir, "other")
		require.NoError(t, os.WriteFile(other, []byte("x"), 0644))
		err := fsutil.Move(other, dst)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrFileMove))
	})
}

func TestCopyTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "vim")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "colors"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "colors", "x.vim"), []byte("hi"), 0644))
	require.NoError(t, os.Symlink("colors/x.vim", filepath.Join(src, "alias.vim")))

	dst := filepath.Join(dir, "copy")
	require.NoError(t, fsutil.Copy(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "colors", "x.vim"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	target, err := os.Readlink(filepath.Join(dst, "alias.vim"))
	require.NoError(t, err)
	assert.Equal(t, "colors/x.vim", target)

	// source untouched
	_, err = os.Stat(filepath.Join(src, "colors", "x.vim"))
	assert.NoError(t, err)
}

func TestCopyOverwritesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hist")
	dst := filepath.Join(dir, "hist.copy")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0600))
	require.NoError(t, os.WriteFile(dst, []byte("old and longer"), 0600))

	require.NoError(t, fsutil.Copy(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFreeName(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".vimrc")
	assert.Equal(t, p, fsutil.FreeName(p))

	require.NoError(t, os.WriteFile(p, nil, 0644))
	assert.Equal(t, p+".1", fsutil.FreeName(p))

	require.NoError(t, os.WriteFile(p+".1", nil, 0644))
	assert.Equal(t, p+".2", fsutil.FreeName(p))
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "state.toml")
	require.NoError(t, os.WriteFile(p, []byte("old"), 0644))

	require.NoError(t, fsutil.WriteAtomic(p, []byte("new"), 0600))

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestWriteAtomicOverDirectory(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "state.toml")
	require.NoError(t, os.Mkdir(target, 0755))

	err := fsutil.WriteAtomic(target, []byte("new"), 0644)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}
