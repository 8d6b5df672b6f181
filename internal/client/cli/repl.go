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
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Highlights(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Category(ctx context.Context, typ string) error
	Types(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
}

const (
	signedOutHelp = "Available commands: register, login, exit"
	signedInHelp  = "Available commands: recipes, search <text>, category <type>, types, show <id>, create, passwd, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the MenuUp CLI.
//
// It reads a line from reader, parses the first token as the
// command, and dispatches to methods on 'a'. Which commands are accepted
// depends on the current root screen: the sign-in screen offers register
// and login, the home screen offers the recipe commands. The loop exits on
// EOF, when ctx is done, or when the user types "exit" or "quit".
//
// Command handlers prompt through the same reader, so piped input is
// consumed one line at a time and never buffered ahead of them.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("menuup %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(signedInHelp)
			} else {
				printlnFn(signedOutHelp)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if a.isLoggedIn() {
			dispatchSignedIn(ctx, a, cmd, args)
		} else {
			dispatchSignedOut(ctx, a, cmd)
		}
	}
}

func dispatchSignedOut(ctx context.Context, a execIface, cmd string) {
	switch cmd {
	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	default:
		printlnFn("Unknown command:", cmd, "(sign in first)")
	}
}

func dispatchSignedIn(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "recipes", "r":
		_ = a.Highlights(ctx)
	case "search":
		_ = a.Search(ctx, strings.Join(args, " "))
	case "category":
		if len(args) == 0 {
			printlnFn("Usage: category <type> (see 'types')")
			return
		}
		_ = a.Category(ctx, args[0])
	case "types":
		_ = a.Types(ctx)
	case "show":
		if len(args) == 0 {
			printlnFn("Usage: show <id>")
			return
		}
		_ = a.Show(ctx, args[0])
	case "create":
		_ = a.Create(ctx)
	case "passwd":
		_ = a.ChangePassword(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "logout":
		_ = a.Logout(ctx)
	case "register", "login":
		printlnFn("Already signed in; logout first")
	default:
		printlnFn("Unknown command:", cmd)
	}
}
