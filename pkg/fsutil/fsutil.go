// Package fsutil holds the filesystem primitives behind sync actions:
// existence checks that do not follow symlinks, moves that survive
// cross-device renames, recursive copies and atomic writes.
package fsutil

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/homesync/pkg/errors"
)

// Entry describes what, if anything, sits at a path without following it
type Entry struct {
	Exists    bool
	IsSymlink bool
	IsDir     bool
}

// Inspect reports the entry at path using Lstat. A missing path is not an error.
func Inspect(path string) (Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, nil
		}
		return Entry{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", path)
	}
	return Entry{
		Exists:    true,
		IsSymlink: info.Mode()&fs.ModeSymlink != 0,
		IsDir:     info.IsDir(),
	}, nil
}

// IsDir reports whether path resolves to a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// LinksTo reports whether path is a symlink whose target is target
func LinksTo(path, target string) bool {
	dest, err := os.Readlink(path)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return filepath.Clean(dest) == filepath.Clean(target)
}

// Move renames src to dst, falling back to copy and remove when the two
// live on different filesystems. dst must not exist.
func Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return errors.Newf(errors.ErrFileMove, "destination already exists: %s", dst)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if !stderrors.As(err, &linkErr) || !stderrors.Is(linkErr.Err, syscall.EXDEV) {
		return errors.Wrapf(err, errors.ErrFileMove, "failed to move %s to %s", src, dst)
	}

	if err := Copy(src, dst); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileMove, "copied %s but failed to remove it", src)
	}
	return nil
}

// Copy copies a file, symlink or directory tree from src to dst,
// overwriting regular files at the destination.
func Copy(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot read %s", src)
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return copySymlink(src, dst)
	case info.IsDir():
		return copyTree(src, dst)
	default:
		return copyFile(src, dst, info.Mode().Perm())
	}
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errors.Wrapf(walkErr, errors.ErrFileCopy, "cannot walk %s", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "relative path outside copy root")
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileCopy, "cannot stat %s", path)
		}
		switch {
		case d.Type()&fs.ModeSymlink != 0:
			return copySymlink(path, target)
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", target)
			}
			return nil
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copySymlink(src, dst string) error {
	dest, err := os.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot read link %s", src)
	}
	_ = os.Remove(dst)
	if err := os.Symlink(dest, dst); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot recreate link %s", dst)
	}
	return nil
}

func copyFile(src, dst string, perm fs.FileMode) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot create %s", dst)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, errors.ErrFileCopy, "cannot close %s", dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "cannot copy %s to %s", src, dst)
	}
	return nil
}

// FreeName returns path if nothing exists there, otherwise the first of
// path.1, path.2, ... that is free.
func FreeName(path string) string {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return path
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s.%d", path, i)
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// WriteAtomic replaces path with data through a temp file in the same
// directory and a rename, so readers never see a partial file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := writeTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*", data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot replace %s", path).
			WithDetail("path", path)
	}
	return nil
}

// writeTemp writes data to a synced temp file and returns its name. The
// temp file is removed on any failure.
func writeTemp(dir, pattern string, data []byte, perm os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot create temp file in %s", dir)
	}
	name = f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", name)
	}
	if err = f.Sync(); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot sync %s", name)
	}
	if err = f.Chmod(perm); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot chmod %s", name)
	}
	if err = f.Close(); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "cannot close %s", name)
	}
	return name, nil
}
