// Package runner executes the external package-manager and generator
// commands that scaffolding depends on. Output is streamed to the caller's
// writers as it is produced; a failing command is reported as a
// *CommandError carrying the command text and exit code, and it is up to the
// caller to decide whether that ends the process.
package runner
