// Package installer turns a YAML catalog of package installation commands
// into menus. The catalog is data; this package only validates it and
// dispatches its steps to the shell executor.
package installer

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/arthur-debert/homesync/pkg/menu"
	"github.com/arthur-debert/homesync/pkg/paths"
	"github.com/arthur-debert/homesync/pkg/shell"
)

//go:embed embedded/catalog.yaml
var defaultCatalog []byte

// Step is either a shell command or a note printed to the user
type Step struct {
	Run     string `yaml:"run,omitempty"`
	Explain string `yaml:"explain,omitempty"`
	Post    string `yaml:"post,omitempty"`
	Note    string `yaml:"note,omitempty"`
}

// Entry is one selectable installer option
type Entry struct {
	Label string `yaml:"label"`
	Steps []Step `yaml:"steps"`
}

// Section is a submenu of the installer
type Section struct {
	Label   string  `yaml:"label"`
	Name    string  `yaml:"name"`
	Entries []Entry `yaml:"entries"`
}

// Catalog is the whole installer tree
type Catalog struct {
	Name  string    `yaml:"name"`
	Menus []Section `yaml:"menus"`
}

// Load reads the catalog at path, or the built-in catalog when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}

	path = paths.ExpandHome(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read installer catalog %s", path)
	}
	logger := logging.GetLogger("installer")
	logger.Debug().Str("path", path).Msg("Loaded installer catalog")
	return Parse(data)
}

// Parse decodes and validates a catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to parse installer catalog")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Menus) == 0 {
		return errors.New(errors.ErrConfigInvalid, "installer catalog has no menus")
	}
	for _, s := range c.Menus {
		if s.Label == "" || len(s.Entries) == 0 {
			return errors.Newf(errors.ErrConfigInvalid, "installer menu %q needs a label and entries", s.Name)
		}
		for _, e := range s.Entries {
			if e.Label == "" || len(e.Steps) == 0 {
				return errors.Newf(errors.ErrConfigInvalid, "entry %q in %q needs a label and steps", e.Label, s.Label)
			}
			for i, st := range e.Steps {
				if st.isCommand() == st.isNote() {
					return errors.Newf(errors.ErrConfigInvalid,
						"step %d of %q must have exactly one of run or note", i+1, e.Label)
				}
			}
		}
	}
	return nil
}

// Menu builds the installer menu. Entries with one step become leaf
// options, entries with several steps run them in order.
func Menu(c *Catalog, runner shell.Runner, out io.Writer) *menu.Menu {
	root := menu.New(c.Name)
	for _, s := range c.Menus {
		sub := menu.New(s.Name)
		for _, e := range s.Entries {
			actions := make([]menu.Action, len(e.Steps))
			for i, st := range e.Steps {
				actions[i] = stepAction(st, runner, out)
			}
			if len(actions) == 1 {
				sub.Add(menu.Leaf(e.Label, actions[0]))
			} else {
				sub.Add(menu.Sequence(e.Label, actions...))
			}
		}
		root.Add(menu.Submenu(s.Label, sub))
	}
	return root
}

func (st Step) isNote() bool {
	return strings.TrimSpace(st.Note) != ""
}

func (st Step) isCommand() bool {
	return strings.TrimSpace(st.Run) != ""
}

func stepAction(st Step, runner shell.Runner, out io.Writer) menu.Action {
	if st.isNote() {
		note := strings.TrimSpace(st.Note)
		return func(context.Context) error {
			fmt.Fprintf(out, "Note: %s\n", note)
			return nil
		}
	}
	cmd := shell.Command{Line: st.Run, Explanation: st.Explain, PostMessage: st.Post}
	return func(ctx context.Context) error {
		_, err := runner.Run(ctx, cmd)
		return err
	}
}
