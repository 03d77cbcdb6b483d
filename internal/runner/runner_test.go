package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
}

func TestCommandString(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{New("", "npm", "init", "-y"), "npm init -y"},
		{New("", "npm", "create", "vite@latest", ".", "--", "--template", "react-ts"), "npm create vite@latest . -- --template react-ts"},
		{New("", "sh", "-c", "exit 1"), `sh -c "exit 1"`},
		{New("", "echo", ""), `echo ""`},
	}
	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestExec_Success(t *testing.T) {
	requireSh(t)

	var stdout, stderr bytes.Buffer
	r := &Exec{Stdin: strings.NewReader(""), Stdout: &stdout, Stderr: &stderr}

	if err := r.Run(context.Background(), New("", "sh", "-c", "echo out; echo err >&2")); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(stdout.String(), "out") {
		t.Errorf("stdout = %q, want to contain 'out'", stdout.String())
	}
	if !strings.Contains(stderr.String(), "err") {
		t.Errorf("stderr = %q, want to contain 'err'", stderr.String())
	}
}

func TestExec_RunsInDir(t *testing.T) {
	requireSh(t)

	dir := t.TempDir()
	r := &Exec{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}

	if err := r.Run(context.Background(), New(dir, "sh", "-c", "touch marker")); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker")); err != nil {
		t.Errorf("marker not created in %s: %v", dir, err)
	}
}

func TestExec_NonZeroExit(t *testing.T) {
	requireSh(t)

	r := &Exec{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := r.Run(context.Background(), New("", "sh", "-c", "exit 3"))
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	ce, ok := AsCommandError(err)
	if !ok {
		t.Fatalf("error %T is not a *CommandError", err)
	}
	if ce.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", ce.ExitCode)
	}
	if !strings.Contains(err.Error(), `sh -c "exit 3"`) {
		t.Errorf("error %q does not name the failing command", err.Error())
	}
}

func TestExec_SpawnFailure(t *testing.T) {
	r := &Exec{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	err := r.Run(context.Background(), New("", "stackgen-definitely-not-a-binary"))

	ce, ok := AsCommandError(err)
	if !ok {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if ce.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", ce.ExitCode)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected wrapped exec.ErrNotFound, got %v", err)
	}
}

func TestExec_Canceled(t *testing.T) {
	requireSh(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Exec{Stdin: strings.NewReader(""), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	if err := r.Run(ctx, New("", "sh", "-c", "sleep 5")); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestAsCommandError_Wrapped(t *testing.T) {
	inner := &CommandError{Command: "npm install", ExitCode: 1}
	wrapped := fmt.Errorf("server: %w", inner)

	ce, ok := AsCommandError(wrapped)
	if !ok || ce != inner {
		t.Fatalf("AsCommandError() = %v, %v", ce, ok)
	}
	if _, ok := AsCommandError(errors.New("plain")); ok {
		t.Error("plain error should not be a CommandError")
	}
}
