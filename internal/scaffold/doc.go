// Package scaffold materializes the client and server halves of a
// full-stack project. Each scaffolder runs package-manager commands through a
// runner.Runner with the target directory as the working directory, then
// writes catalog templates into that directory. Nothing here changes the
// process working directory, so the two halves may run concurrently.
package scaffold
