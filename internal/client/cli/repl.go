package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Go(ctx context.Context, path string) error
	Refresh(ctx context.Context) error
	Search(ctx context.Context, query string) error
	SelectVendor(ctx context.Context, id string) error
	Export(ctx context.Context, path string) error
	Sections() []string
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF, on "exit" or "quit", or when ctx is cancelled.
//
// Commands
//
//	Always:
//	  - help            show available commands
//	  - go <route>      open a route, e.g. go /superadmin/dashboard
//	  - exit | quit     leave the program
//
//	Signed out:
//	  - login           sign in with a mobile number and a one-time code
//
//	Signed in:
//	  - sections        list the routes you may open
//	  - search [text]   filter the current screen; no text clears the filter
//	  - vendor [id]     pick the vendor on customer management
//	  - refresh | r     reload the current screen
//	  - export <file>   write the analytics report as CSV
//	  - logout          end the session
//
// Errors returned by handlers are ignored here; handlers print their own.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("vc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: go <route>, sections, search [text], vendor [id], (r)efresh, export <file>, logout, exit")
			} else {
				printlnFn("Available commands: login, go <route>, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "go":
			if arg == "" {
				printlnFn("Usage: go <route>")
				continue
			}
			_ = a.Go(ctx, arg)

		case "sections":
			for _, p := range a.Sections() {
				printlnFn("  " + p)
			}

		case "search":
			_ = a.Search(ctx, arg)

		case "vendor":
			_ = a.SelectVendor(ctx, arg)

		case "r", "refresh":
			_ = a.Refresh(ctx)

		case "export":
			if arg == "" {
				printlnFn("Usage: export <file>")
				continue
			}
			_ = a.Export(ctx, arg)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
