// Package cli provides the interactive ParkDesk operator console.
//
// It wires configuration, the gRPC client and an interactive REPL. Typical
// flow: prompt for credentials, start a background connectivity watcher,
// and execute operator commands (entries, exits, treasury, reports,
// backups, users).
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
