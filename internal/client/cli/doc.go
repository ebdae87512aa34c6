// Package cli provides the interactive ClipFlow command-line client.
//
// It wires configuration, local storage, the backend API client, the
// clipboard permission gate, the content filter and the sync engine behind
// an interactive REPL. Typical flow: restore the device identity, verify a
// channel (from the -ch flag or a previously stored id), probe clipboard
// access, run an initial sync, and execute user commands.
//
// Key features:
//   - Create / join channels shared across devices
//   - Force a sync of the current clipboard value
//   - Add typed text directly, with no clipboard read (works on
//     manual-only sessions)
//   - List, copy and delete remote entries
//   - Background clipboard monitoring (watch/unwatch)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, startup, and runREPL for details.
package cli
