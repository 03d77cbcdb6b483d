package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stackgen-labs/stackgen/internal/runner"
)

const npmInitManifest = `{
  "name": "server",
  "version": "1.0.0",
  "main": "index.js",
  "scripts": {
    "test": "echo \"Error: no test specified\" && exit 1"
  },
  "keywords": [],
  "license": "ISC"
}
`

// fakeRunner records commands and imitates the files npm would create.
type fakeRunner struct {
	mu       sync.Mutex
	commands []string
	failOn   string // fail the first command starting with this text
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) error {
	line := cmd.String()

	f.mu.Lock()
	f.commands = append(f.commands, line)
	f.mu.Unlock()

	if f.failOn != "" && strings.HasPrefix(line, f.failOn) {
		return &runner.CommandError{Command: line, Dir: cmd.Dir, ExitCode: 1}
	}

	switch {
	case strings.HasPrefix(line, "npm init"):
		return os.WriteFile(filepath.Join(cmd.Dir, "package.json"), []byte(npmInitManifest), 0644)
	case strings.HasPrefix(line, "npm create vite"):
		if err := os.MkdirAll(filepath.Join(cmd.Dir, "src"), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(cmd.Dir, "src", "main.tsx"), []byte("// generated by vite\n"), 0644); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(cmd.Dir, "package.json"), []byte(`{"name":"client","type":"module"}`), 0644)
	}
	return nil
}

func (f *fakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func readGenerated(t *testing.T, dir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("reading %s: %v", filename, err)
	}
	return string(data)
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}

func assertDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("%s is not a directory", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("%s should not exist", path)
	}
}
