// Package config manages user-level settings stored at ~/.stackgen/config.yaml.
// Every key can also be supplied through a STACKGEN_-prefixed environment
// variable (dots become underscores), which takes precedence over the file.
package config
