// Package cli defines the Cobra command tree for the jsdb CLI. Each file in
// this package registers one top-level command (init, deploy, config,
// version) with the root command. Command implementations delegate to
// internal packages for the work and only handle flags, output and the
// mapping of errors to exit codes.
package cli
