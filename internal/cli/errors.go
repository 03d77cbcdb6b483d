package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/stackgen-labs/stackgen/internal/branding"
	"github.com/stackgen-labs/stackgen/internal/catalog"
	"github.com/stackgen-labs/stackgen/internal/prompt"
	"github.com/stackgen-labs/stackgen/internal/runner"
)

// UsageError reports invalid command-line arguments.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// PrintError writes err to w in the form users see on the terminal.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var usage *UsageError
	var invalid *catalog.InvalidError
	switch {
	case errors.As(err, &usage):
		fmt.Fprintf(w, "Error: %s\n", usage.Msg)
		fmt.Fprintf(w, "Run '%s --help' for usage.\n", branding.CLIName())
	case errors.Is(err, prompt.ErrInterrupted):
		fmt.Fprintln(w, "Aborted.")
	case errors.As(err, &invalid):
		fmt.Fprintf(w, "Error: catalog has %d validation issue(s):\n", len(invalid.Issues))
		for _, issue := range invalid.Issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	default:
		if ce, ok := runner.AsCommandError(err); ok {
			fmt.Fprintf(w, "Failed to execute: %s\n", ce.Command)
			if ce.ExitCode < 0 && ce.Err != nil {
				fmt.Fprintf(w, "  %v\n", ce.Err)
			}
			return
		}
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
