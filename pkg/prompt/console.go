// Package prompt provides line-oriented console prompts.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/homesync/pkg/errors"
)

// Prompter asks the user questions
type Prompter interface {
	// Confirm asks a yes/no question; an empty answer selects defaultYes
	Confirm(question string, defaultYes bool) (bool, error)
	// Choose shows numbered options and returns the zero-based index picked
	Choose(greeting string, options []string) (int, error)
	// Ask reads a free-text answer; an empty answer selects def
	Ask(question, def string) (string, error)
}

// Console implements Prompter over a reader and writer
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsole creates a console prompter
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

// Out returns the writer prompts are printed to
func (c *Console) Out() io.Writer {
	return c.out
}

// Confirm implements Prompter
func (c *Console) Confirm(question string, defaultYes bool) (bool, error) {
	marker := "[y/N]"
	if defaultYes {
		marker = "[Y/n]"
	}
	fmt.Fprintf(c.out, "%s %s: ", question, marker)

	answer, err := c.readLine()
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Choose implements Prompter. Options are shown 1-based; invalid input is
// re-asked until a valid number or end of input.
func (c *Console) Choose(greeting string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New(errors.ErrInvalidInput, "no options to choose from")
	}

	if greeting != "" {
		fmt.Fprintln(c.out, greeting)
	}
	for i, option := range options {
		fmt.Fprintf(c.out, "[%d] %s\n", i+1, option)
	}

	for {
		fmt.Fprint(c.out, "> ")
		answer, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprint(c.out, pterm.Warning.Sprintfln("Invalid choice %q, pick 1-%d", answer, len(options)))
	}
}

// Ask implements Prompter
func (c *Console) Ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", question, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", question)
	}

	answer, err := c.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// readLine returns the next trimmed line. End of input with nothing read
// is an error so a closed stdin never auto-confirms anything.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", errors.Wrap(err, errors.ErrPromptInput, "failed to read user input")
	}
	return strings.TrimSpace(line), nil
}

var _ Prompter = (*Console)(nil)
