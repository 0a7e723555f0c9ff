package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CreateFile writes content to dir/name, creating parent directories, and
// returns the full path.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "create parent of %s", path)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "create %s", path)
	return path
}

// CreateDir creates parent/name and returns its path
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()

	path := filepath.Join(parent, name)
	require.NoError(t, os.MkdirAll(path, 0755), "create %s", path)
	return path
}

// CreateSymlink creates link pointing to target, creating link's parent
func CreateSymlink(t *testing.T, target, link string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0755), "create parent of %s", link)
	require.NoError(t, os.Symlink(target, link), "link %s -> %s", link, target)
}

// ReadFile returns the content of path
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err, "read %s", path)
	return string(content)
}

// AssertFileContent checks that path has the expected content
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	assert.Equal(t, expected, ReadFile(t, path), "content of %s", path)
}

// AssertSymlink checks that link is a symlink whose target is exactly target
func AssertSymlink(t *testing.T, link, target string) {
	t.Helper()

	info, err := os.Lstat(link)
	require.NoError(t, err, "lstat %s", link)
	require.True(t, info.Mode()&fs.ModeSymlink != 0, "%s should be a symlink", link)

	actual, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, target, actual, "target of %s", link)
}

// AssertNotSymlink checks that path exists and is a real file or directory
func AssertNotSymlink(t *testing.T, path string) {
	t.Helper()

	info, err := os.Lstat(path)
	require.NoError(t, err, "lstat %s", path)
	assert.True(t, info.Mode()&fs.ModeSymlink == 0, "%s should not be a symlink", path)
}

// AssertNoPath checks that nothing, not even a dangling symlink, is at path
func AssertNoPath(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}

// Tree describes every entry under root, keyed by relative path: "dir",
// "file:<content>" or "link:<target>". Two trees compare equal exactly when
// the on-disk state is the same.
func Tree(t *testing.T, root string) map[string]string {
	t.Helper()

	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			out[rel] = "link:" + target
		case d.IsDir():
			out[rel] = "dir"
		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			out[rel] = "file:" + string(data)
		}
		return nil
	})
	require.NoError(t, err, "walk %s", root)
	return out
}
