package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Command is a single external invocation.
type Command struct {
	Name string
	Args []string
	Dir  string // working directory; empty means the current one
}

// New builds a Command that runs in dir.
func New(dir, name string, args ...string) Command {
	return Command{Name: name, Args: args, Dir: dir}
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, c.Name)
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t\"'") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Runner runs commands to completion.
type Runner interface {
	// Run blocks until the command exits. A nil error means exit status 0.
	Run(ctx context.Context, cmd Command) error
}

// CommandError reports a command that could not be started or exited non-zero.
type CommandError struct {
	Command  string
	Dir      string
	ExitCode int // -1 when the process never started
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("Failed to execute: %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("Failed to execute: %s (exit code %d)", e.Command, e.ExitCode)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// AsCommandError returns (*CommandError, true) if err is or wraps one.
func AsCommandError(err error) (*CommandError, bool) {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Exec is the production Runner backed by os/exec. Standard streams default
// to the process's own, so interactive generators can still ask questions.
type Exec struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string // appended to the inherited environment
	Logger *logrus.Logger
}

// Run executes cmd and streams its output.
func (r *Exec) Run(ctx context.Context, c Command) error {
	if r.Logger != nil {
		r.Logger.WithField("dir", c.Dir).Debugf("$ %s", c)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = r.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	ce := &CommandError{
		Command:  c.String(),
		Dir:      c.Dir,
		ExitCode: -1,
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ce.ExitCode = exitErr.ExitCode()
	}
	return ce
}
