// Package menu implements hierarchical numbered menus. An option is fixed at
// construction to be a single action, an ordered sequence of actions, or a
// nested menu.
package menu

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/homesync/pkg/errors"
)

// DefaultGreeting is printed above the options of a named menu
const DefaultGreeting = "Choose a mode:"

var titleStyle = lipgloss.NewStyle().Bold(true)

// Action is a leaf of the menu tree
type Action func(ctx context.Context) error

// Kind tags an Option
type Kind int

const (
	KindLeaf Kind = iota
	KindSequence
	KindSubmenu
)

// Option is one selectable line of a menu
type Option struct {
	label   string
	kind    Kind
	actions []Action
	submenu *Menu
}

// Leaf creates an option running a single action
func Leaf(label string, action Action) Option {
	return Option{label: label, kind: KindLeaf, actions: []Action{action}}
}

// Sequence creates an option running several actions in order
func Sequence(label string, actions ...Action) Option {
	return Option{label: label, kind: KindSequence, actions: actions}
}

// Submenu creates an option that opens another menu
func Submenu(label string, m *Menu) Option {
	return Option{label: label, kind: KindSubmenu, submenu: m}
}

// Label returns the text shown for the option
func (o Option) Label() string { return o.label }

// Kind returns the option's tag
func (o Option) Kind() Kind { return o.kind }

// Chooser picks one of several options
type Chooser interface {
	Choose(greeting string, options []string) (int, error)
}

// Menu is a named list of options. An empty name suppresses the
// entering/leaving banners and the greeting.
type Menu struct {
	Name     string
	Greeting string
	Options  []Option
}

// New creates a menu with the default greeting
func New(name string, options ...Option) *Menu {
	return &Menu{Name: name, Greeting: DefaultGreeting, Options: options}
}

// Add appends an option
func (m *Menu) Add(option Option) {
	m.Options = append(m.Options, option)
}

// Run shows the menu, reads one choice and runs it. Every action of a
// sequence runs even when an earlier one fails; the failures are joined.
func (m *Menu) Run(ctx context.Context, chooser Chooser, out io.Writer) error {
	if len(m.Options) == 0 {
		return errors.Newf(errors.ErrInvalidInput, "menu %q has no options", m.Name)
	}

	greeting := ""
	if m.Name != "" {
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("===Entering %s...===", m.Name)))
		greeting = m.Greeting
	}

	labels := make([]string, len(m.Options))
	for i, o := range m.Options {
		labels[i] = o.label
	}

	idx, err := chooser.Choose(greeting, labels)
	if err != nil {
		return err
	}

	err = m.Options[idx].run(ctx, chooser, out)

	if m.Name != "" {
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("===...leaving %s===", m.Name)))
	}
	return err
}

func (o Option) run(ctx context.Context, chooser Chooser, out io.Writer) error {
	switch o.kind {
	case KindSubmenu:
		return o.submenu.Run(ctx, chooser, out)
	case KindLeaf:
		return o.actions[0](ctx)
	default:
		var errs []error
		for _, action := range o.actions {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := action(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return stderrors.Join(errs...)
	}
}
