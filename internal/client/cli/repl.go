package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isVerified() bool
	CreateChannel(ctx context.Context, args []string) error
	JoinChannel(ctx context.Context, args []string) error
	ShowChannel(ctx context.Context) error
	Grant(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Paste(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Latest(ctx context.Context) error
	Copy(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Watch(ctx context.Context) error
	Unwatch(ctx context.Context) error
	ShowStatus(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ClipFlow CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not joined to a channel:
//	  - help           — show available commands
//	  - create [id]    — create a channel (optionally with a custom id)
//	  - join <id>      — verify and join an existing channel
//	  - exit | quit    — leave the program
//
//	Joined:
//	  - help           — show available commands
//	  - channel        — show channel and device identity
//	  - grant          — request clipboard access and sync the current value
//	  - add [text]     — sync typed text directly, no clipboard read involved
//	  - sync           — force a sync of the current clipboard value
//	  - paste          — copy the newest remote entry into the OS clipboard
//	  - (l)ist [page]  — list recent entries
//	  - latest         — show the newest entry
//	  - copy <n>       — copy entry n from the last listing to the clipboard
//	  - delete <n>     — delete entry n and block it from re-syncing
//	  - watch/unwatch  — start/stop clipboard monitoring
//	  - status         — show permission, monitoring and filter state
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("cf> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isVerified() {
				printlnFn("Available commands: channel, grant, add [text], sync, paste, (l)ist, latest, copy <n>, delete <n>, watch, unwatch, status, exit")
			} else {
				printlnFn("Available commands: create [id], join <id>, status, exit")
			}

		case "create":
			_ = a.CreateChannel(ctx, args)

		case "join":
			_ = a.JoinChannel(ctx, args)

		case "channel":
			_ = a.ShowChannel(ctx)

		case "grant":
			_ = a.Grant(ctx)

		case "add":
			_ = a.Add(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "paste":
			_ = a.Paste(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "latest":
			_ = a.Latest(ctx)

		case "copy":
			if len(args) == 0 {
				printlnFn("Usage: copy <n>")
				continue
			}
			_ = a.Copy(ctx, args)

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <n>")
				continue
			}
			_ = a.Delete(ctx, args)

		case "watch":
			_ = a.Watch(ctx)

		case "unwatch":
			_ = a.Unwatch(ctx)

		case "status":
			_ = a.ShowStatus(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
