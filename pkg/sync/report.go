package sync

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
)

// Failure is one tracked item that could not be processed
type Failure struct {
	Item string
	Err  error
}

// Report counts what a sync pass did. Skips are not failures.
type Report struct {
	Operation string
	Moved     int
	Linked    int
	Copied    int
	BackedUp  int
	Dumped    int
	Loaded    int
	Skipped   int
	Declined  int
	Failures  []Failure
}

func newReport(operation string) *Report {
	return &Report{Operation: operation}
}

func (r *Report) fail(item string, err error) {
	r.Failures = append(r.Failures, Failure{Item: item, Err: err})
}

// Err joins every recorded failure, or returns nil
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = fmt.Errorf("%s: %w", f.Item, f.Err)
	}
	return stderrors.Join(errs...)
}

// Summary is a one-line description of the counters
func (r *Report) Summary() string {
	parts := []string{}
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(r.Moved, "moved")
	add(r.Linked, "linked")
	add(r.Copied, "copied")
	add(r.BackedUp, "backed up")
	add(r.Dumped, "dumped")
	add(r.Loaded, "loaded")
	add(r.Skipped, "skipped")
	add(r.Declined, "declined")
	add(len(r.Failures), "failed")
	if len(parts) == 0 {
		return "nothing to do"
	}
	return strings.Join(parts, ", ")
}

// Print writes the summary and each failure to out
func (r *Report) Print(out io.Writer) {
	if len(r.Failures) == 0 {
		fmt.Fprint(out, pterm.Success.Sprintfln("%s: %s", r.Operation, r.Summary()))
		return
	}
	fmt.Fprint(out, pterm.Warning.Sprintfln("%s: %s", r.Operation, r.Summary()))
	for _, f := range r.Failures {
		fmt.Fprint(out, pterm.Error.Sprintfln("%s: %v", f.Item, f.Err))
	}
}
