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
	isUnlocked() bool
	Setup(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Status(ctx context.Context) error
	AddAccount(ctx context.Context) error
	ListAccounts(ctx context.Context) error
	ShowAccount(ctx context.Context, args []string) error
	SearchAccounts(ctx context.Context, args []string) error
	EditAccount(ctx context.Context, args []string) error
	RemoveAccounts(ctx context.Context, args []string) error
	MoveAccounts(ctx context.Context, args []string) error
	CopyPassword(ctx context.Context, args []string) error
	ListGroups(ctx context.Context) error
	AddGroup(ctx context.Context, args []string) error
	RemoveGroup(ctx context.Context, args []string) error
	ListTags(ctx context.Context) error
	AddTag(ctx context.Context, args []string) error
	RemoveTag(ctx context.Context, args []string) error
	TagAccount(ctx context.Context, args []string) error
	UntagAccount(ctx context.Context, args []string) error
	ShowStats(ctx context.Context) error
	ShowLog(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the GManager CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on scanner EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Locked:
//	  - help           — show available commands
//	  - setup          — create a new vault
//	  - unlock         — unlock the vault with the master password
//	  - status         — show backend and session state
//	  - exit | quit    — leave the program
//
//	Unlocked:
//	  - help           — show available commands
//	  - add            — add an account (interactive)
//	  - list | l       — list accounts
//	  - show <id>      — show a single account
//	  - search <text>  — search accounts
//	  - edit <id>      — edit an account (interactive)
//	  - rm <id>...     — remove one or more accounts
//	  - move <group-id> <id>...
//	  - copy <id>      — copy an account password to the clipboard
//	  - groups | addgroup | rmgroup
//	  - tags | addtag | rmtag | tag | untag
//	  - stats          — vault statistics
//	  - log [n]        — recent operation log, log purge <days> to trim
//	  - chpass         — change the master password
//	  - lock           — lock the vault
//	  - status | exit | quit
//
// Any errors returned by command handlers are ignored here; handlers should
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gm %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn("Available commands: (l)ist, add, show, search, edit, rm, move, copy, groups, addgroup, rmgroup, tags, addtag, rmtag, tag, untag, stats, log, chpass, lock, status, exit")
			} else {
				printlnFn("Available commands: setup, unlock, status, exit")
			}

		case "setup":
			_ = a.Setup(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "chpass":
			_ = a.ChangePassword(ctx)

		case "status":
			_ = a.Status(ctx)

		case "add":
			_ = a.AddAccount(ctx)

		case "l", "list":
			_ = a.ListAccounts(ctx)

		case "show":
			_ = a.ShowAccount(ctx, args)

		case "search":
			_ = a.SearchAccounts(ctx, args)

		case "edit":
			_ = a.EditAccount(ctx, args)

		case "rm":
			_ = a.RemoveAccounts(ctx, args)

		case "move":
			_ = a.MoveAccounts(ctx, args)

		case "copy":
			_ = a.CopyPassword(ctx, args)

		case "groups":
			_ = a.ListGroups(ctx)

		case "addgroup":
			_ = a.AddGroup(ctx, args)

		case "rmgroup":
			_ = a.RemoveGroup(ctx, args)

		case "tags":
			_ = a.ListTags(ctx)

		case "addtag":
			_ = a.AddTag(ctx, args)

		case "rmtag":
			_ = a.RemoveTag(ctx, args)

		case "tag":
			_ = a.TagAccount(ctx, args)

		case "untag":
			_ = a.UntagAccount(ctx, args)

		case "stats":
			_ = a.ShowStats(ctx)

		case "log":
			_ = a.ShowLog(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
