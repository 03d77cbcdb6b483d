// Package cli defines the Cobra command tree for the stackgen CLI. The root
// command scaffolds the client and/or server; each other file registers one
// subcommand (doctor, config, catalog, version). Commands delegate to the
// internal packages and only handle flags, prompts and output.
package cli
