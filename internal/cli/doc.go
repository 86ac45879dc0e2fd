// Package cli defines the Cobra command tree for the blockreg CLI. Each file
// in this package registers one top-level command (register, scan, dedupe,
// validate, etc.) with the root command. Command implementations delegate to
// internal packages for business logic and only handle flag parsing, output
// formatting, and settings resolution.
package cli
