package sync

import (
	"github.com/arthur-debert/homesync/pkg/fsutil"
	"github.com/arthur-debert/homesync/pkg/tracked"
)

// LinkState describes the home side of a tracked path
type LinkState string

const (
	// Linked means home points at the repository copy
	Linked LinkState = "linked"
	// Unlinked means something other than the repository link is in home
	Unlinked LinkState = "unlinked"
	// Missing means nothing is in home
	Missing LinkState = "missing"
)

// PathStatus is the state of one tracked path
type PathStatus struct {
	Path         tracked.Path
	State        LinkState
	InRepository bool
}

// LinkStatus inspects every tracked path without changing anything
func (e *Engine) LinkStatus() ([]PathStatus, error) {
	if err := e.ensureRepository(); err != nil {
		return nil, err
	}

	out := make([]PathStatus, 0, len(e.paths))
	for _, p := range e.paths {
		home, err := fsutil.Inspect(p.HomeFull())
		if err != nil {
			return nil, err
		}
		repo, err := fsutil.Inspect(p.RepoFull())
		if err != nil {
			return nil, err
		}

		st := PathStatus{Path: p, InRepository: repo.Exists}
		switch {
		case fsutil.LinksTo(p.HomeFull(), p.RepoFull()):
			st.State = Linked
		case home.Exists:
			st.State = Unlinked
		default:
			st.State = Missing
		}
		out = append(out, st)
	}
	return out, nil
}
