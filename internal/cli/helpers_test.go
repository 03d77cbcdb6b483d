package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stackgen-labs/stackgen/internal/runner"
	"github.com/stackgen-labs/stackgen/internal/toolchain"
)

// recordingRunner records commands and writes the package.json npm init
// would create.
type recordingRunner struct {
	mu       sync.Mutex
	commands []string
	failOn   string
}

func (r *recordingRunner) Run(_ context.Context, cmd runner.Command) error {
	line := cmd.String()
	r.mu.Lock()
	r.commands = append(r.commands, line)
	r.mu.Unlock()

	if r.failOn != "" && strings.HasPrefix(line, r.failOn) {
		return &runner.CommandError{Command: line, Dir: cmd.Dir, ExitCode: 1}
	}
	if len(cmd.Args) > 0 && cmd.Args[0] == "init" {
		return os.WriteFile(filepath.Join(cmd.Dir, "package.json"), []byte(`{"name":"server","version":"1.0.0"}`), 0644)
	}
	return nil
}

func (r *recordingRunner) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// setupCLI isolates config and installs fake runner and probe hooks.
func setupCLI(t *testing.T) *recordingRunner {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("STACKGEN_HOME", t.TempDir())

	fake := &recordingRunner{}
	origRunner := newRunner
	newRunner = func(*cobra.Command, *logrus.Logger) runner.Runner { return fake }
	t.Cleanup(func() { newRunner = origRunner })

	origProbe := newProbe
	t.Cleanup(func() { newProbe = origProbe })
	return fake
}

// execute runs the command tree with args and stdin, resetting flag state
// left over from earlier runs.
func execute(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	flagDir, flagParallel, flagCatalog, flagPackageManager, flagVerbose = "", false, "", "", false
	versionShort, versionJSON = false, false
	doctorQuiet, catalogShowYAML = false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := Execute("1.2.3", "abc1234", "2026-01-02")
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func fakeProbe(paths map[string]string, nodeVersion string) func() *toolchain.Probe {
	return func() *toolchain.Probe {
		return &toolchain.Probe{
			LookPath: func(file string) (string, error) {
				if p, ok := paths[file]; ok {
					return p, nil
				}
				return "", os.ErrNotExist
			},
			NodeVersion: func(context.Context, string) (string, error) {
				return nodeVersion, nil
			},
		}
	}
}

func printed(err error) string {
	var buf bytes.Buffer
	PrintError(&buf, err)
	return buf.String()
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("output does not contain %q\n--- output ---\n%s", substr, content)
	}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}
