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
	Keygen(ctx context.Context) error
	Login(ctx context.Context) error
	CreateMint(ctx context.Context) error
	OpenAccount(ctx context.Context) error
	MintTo(ctx context.Context) error
	Balance(ctx context.Context) error
	Init(ctx context.Context) error
	Deposit(ctx context.Context) error
	Withdraw(ctx context.Context) error
	Show(ctx context.Context) error
	Receipts(ctx context.Context) error
	Profile(ctx context.Context) error
	Forget(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the timevault CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands that talk to the vault need a
// session and are refused until login succeeds. The loop exits on EOF or
// when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           - show available commands
//	  - keygen         - create a new signing key
//	  - login          - unlock the key and open a session
//	  - profile        - show the remembered mint and account
//	  - forget         - drop a remembered default
//	  - exit | quit    - leave the program
//
//	Logged in, additionally:
//	  - createmint     - create a mint owned by you
//	  - openaccount    - open your account for a mint
//	  - mintto         - issue units of your mint into an account
//	  - balance        - show an account
//	  - init           - create your vault for a mint
//	  - deposit        - lock units for a period
//	  - withdraw       - release units once the lock expired
//	  - show           - show your vault
//	  - receipts       - list recent vault instructions
//
// Handlers report their own errors; the loop ignores them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("tv %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		if quit := dispatch(ctx, a, line); quit || err != nil {
			return
		}
	}
}

// dispatch runs one command line and reports whether the user asked to leave.
func dispatch(ctx context.Context, a execIface, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]

	if handler, ok := sessionCommands(a)[cmd]; ok {
		if !a.isLoggedIn() {
			printlnFn("Please login first")
			return false
		}
		_ = handler(ctx)
		return false
	}

	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn("Available commands: createmint, openaccount, mintto, balance, init, deposit, withdraw, show, receipts, profile, forget, keygen, login, exit")
		} else {
			printlnFn("Available commands: keygen, login, profile, forget, exit")
		}

	case "keygen":
		_ = a.Keygen(ctx)

	case "login":
		_ = a.Login(ctx)

	case "profile":
		_ = a.Profile(ctx)

	case "forget":
		_ = a.Forget(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	default:
		printlnFn("Unknown command:", cmd)
	}
	return false
}

func sessionCommands(a execIface) map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"createmint":  a.CreateMint,
		"openaccount": a.OpenAccount,
		"mintto":      a.MintTo,
		"balance":     a.Balance,
		"init":        a.Init,
		"deposit":     a.Deposit,
		"withdraw":    a.Withdraw,
		"show":        a.Show,
		"receipts":    a.Receipts,
	}
}
