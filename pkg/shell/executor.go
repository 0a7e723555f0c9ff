package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/logging"
)

// Mode selects whether commands ask for confirmation
type Mode int

const (
	// Interactive asks "Confirm [Y/n]" before every command
	Interactive Mode = iota
	// Silent runs every command without asking
	Silent
)

// Outcome tells the caller whether a command actually ran
type Outcome int

const (
	Executed Outcome = iota
	Declined
)

func (o Outcome) String() string {
	if o == Declined {
		return "declined"
	}
	return "executed"
}

// Command is one confirmable unit of work. Line is always what the user is
// shown; it is also what gets run through the interpreter unless Action is
// set, in which case Action runs in-process instead.
type Command struct {
	Line        string
	Explanation string
	PostMessage string
	Action      func() error
}

// Runner runs commands
type Runner interface {
	Run(ctx context.Context, cmd Command) (Outcome, error)
}

// Confirmer is the part of the prompter the executor needs
type Confirmer interface {
	Confirm(question string, defaultYes bool) (bool, error)
}

// Options configures an Executor
type Options struct {
	Mode        Mode
	Interpreter string
	Confirmer   Confirmer
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
}

// Executor prints, confirms and runs commands
type Executor struct {
	logger      zerolog.Logger
	mode        Mode
	interpreter string
	confirmer   Confirmer
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
}

// NewExecutor creates an executor. Unset streams default to the process's
// own; the interpreter defaults to /bin/bash.
func NewExecutor(opts Options) *Executor {
	e := &Executor{
		logger:      logging.GetLogger("shell.executor"),
		mode:        opts.Mode,
		interpreter: opts.Interpreter,
		confirmer:   opts.Confirmer,
		stdin:       opts.Stdin,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
	}
	if e.interpreter == "" {
		e.interpreter = "/bin/bash"
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	return e
}

// Mode returns the confirmation mode
func (e *Executor) Mode() Mode {
	return e.mode
}

// Run implements Runner. A declined confirmation is not an error.
func (e *Executor) Run(ctx context.Context, cmd Command) (Outcome, error) {
	if cmd.Line == "" {
		return Declined, errors.New(errors.ErrInvalidInput, "command line must not be empty")
	}

	if cmd.Explanation != "" {
		fmt.Fprintln(e.stdout, "Explanation:", cmd.Explanation)
	}
	fmt.Fprintln(e.stdout, "Processing command:", cmd.Line)

	if e.mode == Interactive {
		if e.confirmer == nil {
			return Declined, errors.New(errors.ErrInternal, "interactive executor has no confirmer")
		}
		ok, err := e.confirmer.Confirm("Confirm", true)
		if err != nil {
			return Declined, err
		}
		if !ok {
			e.logger.Info().Str("command", cmd.Line).Msg("Command declined by user")
			e.printPost(cmd)
			return Declined, nil
		}
	}

	err := e.execute(ctx, cmd)
	e.printPost(cmd)
	if err != nil {
		return Executed, err
	}
	return Executed, nil
}

func (e *Executor) printPost(cmd Command) {
	if cmd.PostMessage != "" {
		fmt.Fprintln(e.stdout, cmd.PostMessage)
	}
}

func (e *Executor) execute(ctx context.Context, cmd Command) error {
	if cmd.Action != nil {
		e.logger.Debug().Str("command", cmd.Line).Msg("Running in-process action")
		if err := cmd.Action(); err != nil {
			e.logger.Error().Err(err).Str("command", cmd.Line).Msg("Action failed")
			return err
		}
		return nil
	}

	logging.LogCommand(e.interpreter, []string{"-c", cmd.Line})

	c := exec.CommandContext(ctx, e.interpreter, "-c", cmd.Line)
	c.Stdin = e.stdin
	c.Stdout = e.stdout
	c.Stderr = e.stderr

	if err := c.Run(); err != nil {
		e.logger.Error().
			Err(err).
			Str("command", cmd.Line).
			Msg("Command execution failed")
		return errors.Wrapf(err, errors.ErrCommandFailed, "command failed: %s", cmd.Line)
	}
	return nil
}

var _ Runner = (*Executor)(nil)
