// Package catalog holds the template catalog: the dependency lists, folder
// lists, script map, environment defaults and file templates that the
// scaffolders materialize. The default catalog is embedded in the binary; an
// alternative catalog file can be loaded from disk, in which case templates
// next to that file shadow the embedded ones. Every catalog is validated
// against an embedded JSON Schema before it is used.
package catalog
