// Package toolchain checks that the external tools scaffolding shells out to
// are installed, and that Node.js satisfies the catalog's version constraint.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Status of a single check.
type Status string

const (
	StatusOK   Status = "OK"
	StatusMiss Status = "MISS"
	StatusFail Status = "FAIL"
	StatusWarn Status = "WARN"
)

// Check is the outcome for one binary.
type Check struct {
	Name    string
	Path    string
	Version string
	Status  Status
	Detail  string
}

// Report is the outcome of Probe.Run.
type Report struct {
	Checks []Check
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if c.Status != StatusOK {
			return false
		}
	}
	return true
}

// Print writes the report in the doctor output format.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, "Toolchain check:")
	for _, c := range r.Checks {
		tag := fmt.Sprintf("[%-4s]", c.Status)
		if c.Status == StatusOK {
			tag = "[ OK ]"
		}
		switch {
		case c.Status == StatusMiss:
			fmt.Fprintf(w, "  %s %s not found\n", tag, c.Name)
		case c.Detail != "":
			fmt.Fprintf(w, "  %s %s: %s\n", tag, c.Name, c.Detail)
		case c.Version != "":
			fmt.Fprintf(w, "  %s %s %s at %s\n", tag, c.Name, c.Version, c.Path)
		default:
			fmt.Fprintf(w, "  %s %s found at %s\n", tag, c.Name, c.Path)
		}
	}
}

// Probe locates binaries and reads the Node.js version.
type Probe struct {
	LookPath func(file string) (string, error)
	// NodeVersion returns the raw output of `node --version`.
	NodeVersion func(ctx context.Context, nodePath string) (string, error)
}

// NewProbe returns a Probe backed by the real PATH.
func NewProbe() *Probe {
	return &Probe{
		LookPath:    exec.LookPath,
		NodeVersion: nodeVersion,
	}
}

func nodeVersion(ctx context.Context, nodePath string) (string, error) {
	out, err := exec.CommandContext(ctx, nodePath, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("running %s --version: %w", nodePath, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Run checks each binary and, when constraint is non-empty, that node
// satisfies it.
func (p *Probe) Run(ctx context.Context, binaries []string, constraint string) (*Report, error) {
	var nodeConstraint *semver.Constraints
	if constraint != "" {
		c, err := semver.NewConstraint(constraint)
		if err != nil {
			return nil, fmt.Errorf("parsing node constraint %q: %w", constraint, err)
		}
		nodeConstraint = c
	}

	report := &Report{}
	for _, name := range binaries {
		check := Check{Name: name}
		path, err := p.LookPath(name)
		if err != nil {
			check.Status = StatusMiss
			report.Checks = append(report.Checks, check)
			continue
		}
		check.Path = path
		check.Status = StatusOK

		if name == "node" && nodeConstraint != nil {
			p.checkNode(ctx, &check, nodeConstraint, constraint)
		}
		report.Checks = append(report.Checks, check)
	}
	return report, nil
}

func (p *Probe) checkNode(ctx context.Context, check *Check, c *semver.Constraints, raw string) {
	out, err := p.NodeVersion(ctx, check.Path)
	if err != nil {
		check.Status = StatusWarn
		check.Detail = err.Error()
		return
	}
	check.Version = out

	v, err := ParseVersion(out)
	if err != nil {
		check.Status = StatusWarn
		check.Detail = fmt.Sprintf("cannot parse version %q: %v", out, err)
		return
	}
	if !c.Check(v) {
		check.Status = StatusFail
		check.Detail = fmt.Sprintf("version %s does not satisfy %s", out, raw)
	}
}

// ParseVersion strips a leading "v" and parses the version string.
func ParseVersion(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
