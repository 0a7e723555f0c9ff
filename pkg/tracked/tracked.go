// Package tracked describes the files and desktop settings homesync keeps in
// the dotfiles repository. Paths are created by a Layout, which owns the
// repository location; repository-side values are derived from the Layout
// each time they are requested.
package tracked

import (
	"path/filepath"
	"strings"
	gosync "sync"

	"github.com/arthur-debert/homesync/pkg/errors"
)

// SnapshotExt is the file extension of desktop settings snapshots
const SnapshotExt = ".snapshot"

// Layout binds tracked paths to a home directory and a repository location
type Layout struct {
	home        string
	settingsDir string

	mu   gosync.RWMutex
	repo string
}

// NewLayout creates a layout for home. The repository location is unset
// until SetRepository is called.
func NewLayout(home, settingsDir string) *Layout {
	return &Layout{home: filepath.Clean(home), settingsDir: settingsDir}
}

// Home returns the home directory
func (l *Layout) Home() string {
	return l.home
}

// SetRepository sets the repository location
func (l *Layout) SetRepository(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.repo = filepath.Clean(dir)
}

// Repository returns the repository location, or "" when unset
func (l *Layout) Repository() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.repo
}

// HasRepository reports whether a repository location has been set
func (l *Layout) HasRepository() bool {
	return l.Repository() != ""
}

// Path creates a tracked path. rel must be relative and stay inside its root.
func (l *Layout) Path(rel string) (Path, error) {
	if strings.TrimSpace(rel) == "" {
		return Path{}, errors.New(errors.ErrInvalidInput, "tracked path must not be empty")
	}
	if filepath.IsAbs(rel) {
		return Path{}, errors.Newf(errors.ErrInvalidInput, "tracked path must be relative: %s", rel)
	}
	clean := filepath.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return Path{}, errors.Newf(errors.ErrInvalidInput, "tracked path escapes its root: %s", rel)
	}
	return Path{layout: l, rel: clean}, nil
}

// Paths creates tracked paths for every entry, in order
func (l *Layout) Paths(rels []string) ([]Path, error) {
	out := make([]Path, 0, len(rels))
	for _, rel := range rels {
		p, err := l.Path(rel)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Settings creates a desktop settings entry for key
func (l *Layout) Settings(key string) SettingsEntry {
	return SettingsEntry{layout: l, key: key}
}

// Path is a file or directory that lives in the repository and is linked
// from the home directory
type Path struct {
	layout *Layout
	rel    string
}

// RelativePath is the path relative to both roots
func (p Path) RelativePath() string {
	return p.rel
}

// HomeFull is the path inside the home directory
func (p Path) HomeFull() string {
	return filepath.Join(p.layout.home, p.rel)
}

// RepoFull is the path inside the repository
func (p Path) RepoFull() string {
	return filepath.Join(p.layout.Repository(), p.rel)
}

// InternalDir is the directory part of the relative path, "" at top level
func (p Path) InternalDir() string {
	dir := filepath.Dir(p.rel)
	if dir == "." {
		return ""
	}
	return dir
}

// HomeParent is the directory containing HomeFull
func (p Path) HomeParent() string {
	return filepath.Join(p.layout.home, p.InternalDir())
}

// RepoParent is the directory containing RepoFull
func (p Path) RepoParent() string {
	return filepath.Join(p.layout.Repository(), p.InternalDir())
}

// FileName is the last element of the relative path
func (p Path) FileName() string {
	return filepath.Base(p.rel)
}

func (p Path) String() string {
	return p.rel
}

// SettingsEntry is a desktop settings subtree snapshotted into the repository
type SettingsEntry struct {
	layout *Layout
	key    string
}

// Key is the settings subtree, e.g. /com/gexperts/Tilix/
func (s SettingsEntry) Key() string {
	return s.key
}

// SnapshotDir is the repository directory holding snapshots
func (s SettingsEntry) SnapshotDir() string {
	return filepath.Join(s.layout.Repository(), s.layout.settingsDir)
}

// RepoFile is the snapshot file for this key
func (s SettingsEntry) RepoFile() string {
	return filepath.Join(s.SnapshotDir(), strings.ReplaceAll(s.key, "/", "-")+SnapshotExt)
}

func (s SettingsEntry) String() string {
	return s.key
}
