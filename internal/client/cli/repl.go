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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forget(ctx context.Context) error
	List(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Page(ctx context.Context, n string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Mfa(ctx context.Context) error
	CopyKey(ctx context.Context) error
	AuthApp(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, forget, exit"
	helpLoggedIn  = "Available commands: list, next, prev, page <n>, create, edit <id>, delete <id>, mfa, copykey, authapp, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the itemgate CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands read their own prompts from the
// same reader. Unknown commands are reported back to the user. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help            show available commands
//	  - register        create an account
//	  - login           authenticate with a password or an OTP
//	  - forget          drop the remembered e-mail
//	  - exit | quit     leave the program
//
//	Logged in:
//	  - list            reload and show the current page
//	  - next | prev     move between pages
//	  - page <n>        jump to page n
//	  - create          create an item (OTP required)
//	  - edit <id>       edit an item of the current page
//	  - delete <id>     delete an item (OTP required)
//	  - mfa             generate and register an MFA key
//	  - copykey         copy the MFA key to the clipboard
//	  - authapp         open the Auth App in the browser
//	  - whoami          show the session and token details
//	  - logout          log out
//	  - exit | quit     leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ig %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		arg := ""
		if len(parts) > 1 {
			arg = parts[1]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if loggedInOnly(cmd) && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}
		if needsArg(cmd) && arg == "" {
			printlnFn(fmt.Sprintf("Usage: %s <%s>", cmd, argName(cmd)))
			continue
		}

		switch cmd {
		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "forget":
			_ = a.Forget(ctx)
		case "l", "list":
			_ = a.List(ctx)
		case "n", "next":
			_ = a.Next(ctx)
		case "p", "prev":
			_ = a.Prev(ctx)
		case "page":
			_ = a.Page(ctx, arg)
		case "create":
			_ = a.Create(ctx)
		case "edit":
			_ = a.Edit(ctx, arg)
		case "delete":
			_ = a.Delete(ctx, arg)
		case "mfa":
			_ = a.Mfa(ctx)
		case "copykey":
			_ = a.CopyKey(ctx)
		case "authapp":
			_ = a.AuthApp(ctx)
		case "whoami":
			_ = a.WhoAmI(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}

		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func loggedInOnly(cmd string) bool {
	switch cmd {
	case "l", "list", "n", "next", "p", "prev", "page", "create", "edit", "delete",
		"mfa", "copykey", "authapp", "whoami", "logout":
		return true
	}
	return false
}

func needsArg(cmd string) bool {
	return cmd == "page" || cmd == "edit" || cmd == "delete"
}

func argName(cmd string) string {
	if cmd == "page" {
		return "n"
	}
	return "id"
}
