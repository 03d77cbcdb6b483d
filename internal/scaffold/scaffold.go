package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/stackgen-labs/stackgen/internal/catalog"
	"github.com/stackgen-labs/stackgen/internal/logging"
	"github.com/stackgen-labs/stackgen/internal/runner"
)

// Target names one half of the project.
type Target string

const (
	TargetClient Target = "client"
	TargetServer Target = "server"
)

// Options carries everything a scaffolder needs. Zero values fall back to
// the embedded catalog, npm and a discarding logger.
type Options struct {
	Dir            string // absolute path of the directory to populate
	Runner         runner.Runner
	Catalog        *catalog.Catalog
	Logger         *logrus.Logger
	PackageManager string

	// Client settings.
	ClientTemplate string // overrides the catalog's Vite template
	RewriteEntry   bool
	WriteReadme    bool
	ProjectName    string // shown in the client README

	// Server settings.
	Env map[string]string // merged over the catalog's .env defaults
}

// Result holds the outcome of a scaffold run.
type Result struct {
	Target    Target
	OutputDir string
	Commands  []string
	Folders   []string
	Files     []string
}

// Run dispatches to the scaffolder for target.
func Run(ctx context.Context, target Target, opts Options) (*Result, error) {
	switch target {
	case TargetClient:
		return Client(ctx, opts)
	case TargetServer:
		return Server(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown scaffold target %q: supported targets are %q and %q", target, TargetClient, TargetServer)
	}
}

// session is the per-run state shared by the steps of one scaffolder.
type session struct {
	ctx    context.Context
	opts   Options
	pm     PackageManager
	log    *logrus.Entry
	result *Result
}

func newSession(ctx context.Context, target Target, opts Options) (*session, error) {
	if opts.Dir == "" || !filepath.IsAbs(opts.Dir) {
		return nil, fmt.Errorf("%s directory must be an absolute path, got %q", target, opts.Dir)
	}
	if opts.Runner == nil {
		return nil, errors.New("scaffold: no command runner configured")
	}
	if opts.Catalog == nil {
		c, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		opts.Catalog = c
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	pm, err := LookupPackageManager(opts.PackageManager)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s directory: %w", target, err)
	}

	return &session{
		ctx:    ctx,
		opts:   opts,
		pm:     pm,
		log:    opts.Logger.WithField("target", string(target)),
		result: &Result{Target: target, OutputDir: opts.Dir},
	}, nil
}

// run executes one package-manager command in the scaffold directory.
func (s *session) run(name string, args ...string) error {
	cmd := runner.New(s.opts.Dir, name, args...)
	s.result.Commands = append(s.result.Commands, cmd.String())
	return s.opts.Runner.Run(s.ctx, cmd)
}

// install runs the package manager's install for pkgs. Empty lists are skipped.
func (s *session) install(dev bool, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	name, args := s.pm.Install(dev, pkgs)
	return s.run(name, args...)
}

// mkdirs creates every folder under the scaffold directory.
func (s *session) mkdirs(folders []string) error {
	created, err := EnsureDirs(s.opts.Dir, folders)
	s.result.Folders = append(s.result.Folders, created...)
	return err
}

// write stores data at rel, replacing any existing file.
func (s *session) write(rel string, data []byte) error {
	return s.writeMode(rel, data, 0644)
}

// writeMode is write with explicit permission bits. The mode is applied even
// when the file already existed.
func (s *session) writeMode(rel string, data []byte, mode os.FileMode) error {
	path := filepath.Join(s.opts.Dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	// Windows has no Unix permission bits.
	if runtime.GOOS != "windows" {
		if err := os.Chmod(path, mode); err != nil {
			return fmt.Errorf("setting permissions on %s: %w", rel, err)
		}
	}
	s.result.Files = append(s.result.Files, rel)
	return nil
}

// writeTemplate renders a catalog template to f.Path.
func (s *session) writeTemplate(f catalog.File, data any) error {
	content, err := s.opts.Catalog.Render(f.Template, data)
	if err != nil {
		return err
	}
	return s.write(f.Path, content)
}

// EnsureDirs creates each folder (relative to root) with all parents. It is
// idempotent: existing folders are left alone and reported again.
func EnsureDirs(root string, folders []string) ([]string, error) {
	var created []string
	for _, folder := range folders {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(folder)), 0755); err != nil {
			return created, fmt.Errorf("creating folder %s: %w", folder, err)
		}
		created = append(created, folder)
	}
	return created, nil
}
