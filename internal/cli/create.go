package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stackgen-labs/stackgen/internal/config"
	"github.com/stackgen-labs/stackgen/internal/logging"
	"github.com/stackgen-labs/stackgen/internal/prompt"
	"github.com/stackgen-labs/stackgen/internal/runner"
	"github.com/stackgen-labs/stackgen/internal/scaffold"
	"golang.org/x/sync/errgroup"
)

// Targets records which halves of the project to scaffold.
type Targets struct {
	Client bool
	Server bool
}

// Both reports whether the full-stack flow was selected.
func (t Targets) Both() bool { return t.Client && t.Server }

// List returns the selected targets in scaffold order.
func (t Targets) List() []scaffold.Target {
	var out []scaffold.Target
	if t.Client {
		out = append(out, scaffold.TargetClient)
	}
	if t.Server {
		out = append(out, scaffold.TargetServer)
	}
	return out
}

// ParseTargets turns positional arguments into Targets. No arguments selects
// both. Unknown tokens are ignored once "client" or "server" is present; if
// neither is, the arguments are a UsageError.
func ParseTargets(args []string) (Targets, error) {
	if len(args) == 0 {
		return Targets{Client: true, Server: true}, nil
	}
	var t Targets
	for _, arg := range args {
		switch arg {
		case string(scaffold.TargetClient):
			t.Client = true
		case string(scaffold.TargetServer):
			t.Server = true
		}
	}
	if !t.Client && !t.Server {
		return Targets{}, &UsageError{Msg: fmt.Sprintf(
			"invalid argument(s) %s: use 'client', 'server' or no arguments to set up both", strings.Join(args, ", "))}
	}
	return t, nil
}

// unknownTargets returns the arguments ParseTargets skipped.
func unknownTargets(args []string) []string {
	var out []string
	for _, arg := range args {
		if arg != string(scaffold.TargetClient) && arg != string(scaffold.TargetServer) {
			out = append(out, arg)
		}
	}
	return out
}

func validateTargetArgs(cmd *cobra.Command, args []string) error {
	_, err := ParseTargets(args)
	return err
}

// newRunner builds the command runner for a scaffold run. Tests replace it.
var newRunner = func(cmd *cobra.Command, log *logrus.Logger) runner.Runner {
	return &runner.Exec{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
		Logger: log,
	}
}

func runScaffold(cmd *cobra.Command, args []string) error {
	targets, err := ParseTargets(args)
	if err != nil {
		return err
	}

	config.Load()
	settings := config.Current()
	log := newLogger(cmd.ErrOrStderr(), settings)
	if unknown := unknownTargets(args); len(unknown) > 0 {
		log.Warnf("Ignoring unknown argument(s): %s", strings.Join(unknown, ", "))
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	root, err := resolveProjectDir(ctx, cmd, targets)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return fmt.Errorf("creating project directory %s: %w", root, err)
	}

	pm := flagPackageManager
	if pm == "" {
		pm = settings.PackageManager
	}
	if _, err := scaffold.LookupPackageManager(pm); err != nil {
		return &UsageError{Msg: err.Error()}
	}

	base := scaffold.Options{
		Runner:         newRunner(cmd, log),
		Catalog:        cat,
		Logger:         log,
		PackageManager: pm,
		ClientTemplate: settings.ClientTemplate,
		RewriteEntry:   settings.ClientRewriteEntry,
		WriteReadme:    settings.ClientReadme,
		ProjectName:    filepath.Base(root),
		Env:            serverEnv(settings),
	}

	log.WithField("dir", root).Debugf("Using catalog %s", cat.Source())

	results, err := scaffoldTargets(ctx, targets.List(), root, base, flagParallel)
	for _, r := range results {
		if r != nil {
			printResult(cmd.OutOrStdout(), r)
		}
	}
	if err != nil {
		return err
	}

	if targets.Both() {
		fmt.Fprintln(cmd.OutOrStdout(), "Full-stack project setup complete!")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Project setup complete!")
	}
	return nil
}

// resolveProjectDir returns the absolute directory to scaffold into. The
// full-stack flow asks for a name unless --dir was given.
func resolveProjectDir(ctx context.Context, cmd *cobra.Command, targets Targets) (string, error) {
	dir := flagDir
	if dir == "" && targets.Both() {
		answer, err := newPrompter(cmd).Input(ctx, prompt.InputConfig{
			Message:   "Project directory name",
			Help:      "Client and server folders are created inside this directory.",
			Validator: prompt.Required,
		})
		if err != nil {
			return "", err
		}
		dir = answer
	}
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project directory %q: %w", dir, err)
	}
	return abs, nil
}

func newPrompter(cmd *cobra.Command) prompt.Prompter {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if out, ok := cmd.OutOrStdout().(*os.File); ok {
			return prompt.New(f, out)
		}
	}
	return prompt.NewLine(in, cmd.OutOrStdout())
}

// scaffoldTargets runs each target in its own subdirectory of root. With
// parallel set, the first failure cancels the others. Results keep the order
// of targets; entries for targets that never ran are nil.
func scaffoldTargets(ctx context.Context, targets []scaffold.Target, root string, base scaffold.Options, parallel bool) ([]*scaffold.Result, error) {
	results := make([]*scaffold.Result, len(targets))
	optsFor := func(t scaffold.Target) scaffold.Options {
		opts := base
		opts.Dir = filepath.Join(root, string(t))
		return opts
	}

	if !parallel || len(targets) < 2 {
		for i, t := range targets {
			base.Logger.Infof("Setting up %s...", t)
			r, err := scaffold.Run(ctx, t, optsFor(t))
			results[i] = r
			if err != nil {
				return results, err
			}
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			base.Logger.Infof("Setting up %s...", t)
			r, err := scaffold.Run(gctx, t, optsFor(t))
			results[i] = r
			return err
		})
	}
	return results, g.Wait()
}

func newLogger(w io.Writer, settings config.Settings) *logrus.Logger {
	level := settings.LogLevel
	if flagVerbose {
		level = logrus.DebugLevel.String()
	}
	return logging.New(w, level)
}

func serverEnv(settings config.Settings) map[string]string {
	env := map[string]string{"MONGO_URL": settings.ServerMongoURL}
	if settings.ServerPort > 0 {
		env["PORT"] = strconv.Itoa(settings.ServerPort)
	}
	return env
}

func printResult(w io.Writer, result *scaffold.Result) {
	fmt.Fprintf(w, "Created %s at %s/\n", result.Target, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(result.Folders) > 0 {
		fmt.Fprintf(w, "  (%d folders)\n", len(result.Folders))
	}
}
