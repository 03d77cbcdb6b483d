package scaffold

import (
	"fmt"
	"regexp"
	"sort"
)

// PackageManager builds the command lines for one Node package manager.
type PackageManager interface {
	Name() string
	// Init creates a package.json without asking questions.
	Init() (string, []string)
	// Install adds packages as runtime or development dependencies.
	Install(dev bool, pkgs []string) (string, []string)
	// Create runs a create-* generator in the current directory.
	Create(generator string, args ...string) (string, []string)
	// Exec runs a binary from the local node_modules.
	Exec(bin string, args ...string) (string, []string)
	// Script rewrites a package.json script written for npm so that it
	// calls this package manager instead.
	Script(cmd string) string
}

var packageManagers = map[string]PackageManager{
	"npm":  npm{},
	"pnpm": pnpm{},
	"yarn": yarn{},
}

// LookupPackageManager returns the named package manager; empty means npm.
func LookupPackageManager(name string) (PackageManager, error) {
	if name == "" {
		name = "npm"
	}
	pm, ok := packageManagers[name]
	if !ok {
		return nil, fmt.Errorf("unsupported package manager %q (supported: %v)", name, PackageManagerNames())
	}
	return pm, nil
}

// PackageManagerNames lists the supported package managers, sorted.
func PackageManagerNames() []string {
	names := make([]string, 0, len(packageManagers))
	for n := range packageManagers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var (
	npmRunCall = regexp.MustCompile(`\bnpm (run|start|test)\b`)
	npxCall    = regexp.MustCompile(`\bnpx\s`)
)

// rewriteScript swaps "npm run", "npm start", "npm test" and "npx" calls in
// cmd for the given runner and exec prefix.
func rewriteScript(cmd, runner, execPrefix string) string {
	cmd = npmRunCall.ReplaceAllString(cmd, runner+" $1")
	return npxCall.ReplaceAllString(cmd, execPrefix+" ")
}

type npm struct{}

func (npm) Name() string { return "npm" }

func (npm) Init() (string, []string) { return "npm", []string{"init", "-y"} }

func (npm) Install(dev bool, pkgs []string) (string, []string) {
	args := []string{"install"}
	if dev {
		args = append(args, "-D")
	}
	return "npm", append(args, pkgs...)
}

func (npm) Create(generator string, args ...string) (string, []string) {
	out := []string{"create", generator + "@latest", "."}
	if len(args) > 0 {
		out = append(out, "--")
		out = append(out, args...)
	}
	return "npm", out
}

func (npm) Exec(bin string, args ...string) (string, []string) {
	return "npx", append([]string{bin}, args...)
}

func (npm) Script(cmd string) string { return cmd }

type pnpm struct{}

func (pnpm) Name() string { return "pnpm" }

func (pnpm) Init() (string, []string) { return "pnpm", []string{"init"} }

func (pnpm) Install(dev bool, pkgs []string) (string, []string) {
	args := []string{"add"}
	if dev {
		args = append(args, "-D")
	}
	return "pnpm", append(args, pkgs...)
}

func (pnpm) Create(generator string, args ...string) (string, []string) {
	return "pnpm", append([]string{"create", generator, "."}, args...)
}

func (pnpm) Exec(bin string, args ...string) (string, []string) {
	return "pnpm", append([]string{"exec", bin}, args...)
}

func (pnpm) Script(cmd string) string { return rewriteScript(cmd, "pnpm", "pnpm exec") }

type yarn struct{}

func (yarn) Name() string { return "yarn" }

func (yarn) Init() (string, []string) { return "yarn", []string{"init", "-y"} }

func (yarn) Install(dev bool, pkgs []string) (string, []string) {
	args := []string{"add"}
	if dev {
		args = append(args, "-D")
	}
	return "yarn", append(args, pkgs...)
}

func (yarn) Create(generator string, args ...string) (string, []string) {
	return "yarn", append([]string{"create", generator, "."}, args...)
}

func (yarn) Exec(bin string, args ...string) (string, []string) {
	return "yarn", append([]string{bin}, args...)
}

func (yarn) Script(cmd string) string { return rewriteScript(cmd, "yarn", "yarn") }
