// pkg/shell/executor_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: /bin/sh for external command cases
// PURPOSE: Test confirmation flow, in-process actions and command failures

package shell_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/arthur-debert/homesync/pkg/errors"
	"github.com/arthur-debert/homesync/pkg/prompt"
	"github.com/arthur-debert/homesync/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInteractive(input string, out *bytes.Buffer) *shell.Executor {
	return shell.NewExecutor(shell.Options{
		Mode:        shell.Interactive,
		Interpreter: "/bin/sh",
		Confirmer:   prompt.NewConsole(strings.NewReader(input), out),
		Stdin:       strings.NewReader(""),
		Stdout:      out,
		Stderr:      out,
	})
}

func TestRunPrintsExplanationAndPost(t *testing.T) {
	var out bytes.Buffer
	e := shell.NewExecutor(shell.Options{Mode: shell.Silent, Interpreter: "/bin/sh", Stdout: &out, Stderr: &out})

	outcome, err := e.Run(context.Background(), shell.Command{
		Line:        "echo hello",
		Explanation: "Saying hello...",
		PostMessage: "Done.",
	})
	require.NoError(t, err)
	assert.Equal(t, shell.Executed, outcome)

	text := out.String()
	assert.Contains(t, text, "Explanation: Saying hello...\n")
	assert.Contains(t, text, "Processing command: echo hello\n")
	assert.Contains(t, text, "hello\n")
	assert.True(t, strings.HasSuffix(text, "Done.\n"))
	assert.NotContains(t, text, "Confirm", "silent mode never asks")
}

func TestRunInteractiveConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    shell.Outcome
		wantRan bool
	}{
		{"empty answer confirms", "\n", shell.Executed, true},
		{"y confirms", "y\n", shell.Executed, true},
		{"n declines", "n\n", shell.Declined, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			e := newInteractive(tt.input, &out)

			ran := false
			outcome, err := e.Run(context.Background(), shell.Command{
				Line:   "mv a b",
				Action: func() error { ran = true; return nil },
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, tt.wantRan, ran)
			assert.Contains(t, out.String(), "Confirm [Y/n]: ")
		})
	}
}

func TestRunActionError(t *testing.T) {
	e := shell.NewExecutor(shell.Options{Mode: shell.Silent, Stdout: &bytes.Buffer{}})
	boom := stderrors.New("boom")

	outcome, err := e.Run(context.Background(), shell.Command{
		Line:   "ln -s a b",
		Action: func() error { return boom },
	})
	assert.Equal(t, shell.Executed, outcome)
	assert.ErrorIs(t, err, boom)
}

func TestRunCommandFailure(t *testing.T) {
	var out bytes.Buffer
	e := shell.NewExecutor(shell.Options{Mode: shell.Silent, Interpreter: "/bin/sh", Stdout: &out, Stderr: &out})

	_, err := e.Run(context.Background(), shell.Command{Line: "exit 3"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))
}

func TestRunEmptyLine(t *testing.T) {
	e := shell.NewExecutor(shell.Options{Mode: shell.Silent, Stdout: &bytes.Buffer{}})
	_, err := e.Run(context.Background(), shell.Command{})
	require.Error(t, err)
}

func TestRunInputClosed(t *testing.T) {
	var out bytes.Buffer
	e := newInteractive("", &out)

	ran := false
	outcome, err := e.Run(context.Background(), shell.Command{
		Line:   "rm -rf /",
		Action: func() error { ran = true; return nil },
	})
	require.Error(t, err)
	assert.Equal(t, shell.Declined, outcome)
	assert.False(t, ran)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "/home/u/.vimrc", shell.Quote("/home/u/.vimrc"))
	assert.Equal(t, "'/home/u/my file'", shell.Quote("/home/u/my file"))
	assert.Equal(t, `'it'\''s'`, shell.Quote("it's"))
	assert.Equal(t, "''", shell.Quote(""))
	assert.Equal(t, "mv /a '/b c'", shell.Join("mv", "/a", "/b c"))
}
