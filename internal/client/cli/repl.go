package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	ChangePassword(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	AddUser(ctx context.Context) error

	Entry(ctx context.Context, args []string) error
	Exit(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Find(ctx context.Context, args []string) error
	Debtors(ctx context.Context) error
	Debt(ctx context.Context, args []string) error

	Rates(ctx context.Context, args []string) error
	Treasury(ctx context.Context) error
	CloseShift(ctx context.Context, args []string) error
	Closures(ctx context.Context) error
	Metrics(ctx context.Context) error
	Report(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Barcode(ctx context.Context, args []string) error
	Dev(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: login, reset, exit"
	helpLoggedIn  = "Available commands: entry <type> <plate> [ticket], out <ticket> [method] [paid], remove <ticket>, " +
		"(l)ist [status] [offset], find <ticket>, debtors, debt <plate>, rates [search], treasury, close [counted], closures, " +
		"metrics, report <type> [from] [to], backup [list|create [plain]|restore <path>], barcode <code> [file.png], " +
		"dev [snapshot|path|clear|reset <user-id>|commands], users, adduser, passwd [user-id], " +
		"whoami, logout, exit"
)

// runREPL starts a read–eval–print loop for the ParkDesk console.
//
// It reads a line from the scanner, parses the first token as the command
// and the rest as its arguments, and dispatches to methods on 'a'. Commands
// other than help, login, reset and exit need a logged-in session. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "login":
			report(a.Login(ctx))
			continue
		case "reset":
			report(a.ResetPassword(ctx))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			if _, known := commands[cmd]; known {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		run, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		report(run(ctx, a, args))
	}
}

var commands = map[string]func(ctx context.Context, a execIface, args []string) error{
	"logout":   func(ctx context.Context, a execIface, _ []string) error { return a.Logout(ctx) },
	"whoami":   func(ctx context.Context, a execIface, _ []string) error { return a.WhoAmI(ctx) },
	"passwd":   func(ctx context.Context, a execIface, args []string) error { return a.ChangePassword(ctx, args) },
	"users":    func(ctx context.Context, a execIface, _ []string) error { return a.Users(ctx) },
	"adduser":  func(ctx context.Context, a execIface, _ []string) error { return a.AddUser(ctx) },
	"entry":    func(ctx context.Context, a execIface, args []string) error { return a.Entry(ctx, args) },
	"out":      func(ctx context.Context, a execIface, args []string) error { return a.Exit(ctx, args) },
	"remove":   func(ctx context.Context, a execIface, args []string) error { return a.Remove(ctx, args) },
	"l":        func(ctx context.Context, a execIface, args []string) error { return a.List(ctx, args) },
	"list":     func(ctx context.Context, a execIface, args []string) error { return a.List(ctx, args) },
	"find":     func(ctx context.Context, a execIface, args []string) error { return a.Find(ctx, args) },
	"debtors":  func(ctx context.Context, a execIface, _ []string) error { return a.Debtors(ctx) },
	"debt":     func(ctx context.Context, a execIface, args []string) error { return a.Debt(ctx, args) },
	"rates":    func(ctx context.Context, a execIface, args []string) error { return a.Rates(ctx, args) },
	"treasury": func(ctx context.Context, a execIface, _ []string) error { return a.Treasury(ctx) },
	"close":    func(ctx context.Context, a execIface, args []string) error { return a.CloseShift(ctx, args) },
	"closures": func(ctx context.Context, a execIface, _ []string) error { return a.Closures(ctx) },
	"metrics":  func(ctx context.Context, a execIface, _ []string) error { return a.Metrics(ctx) },
	"report":   func(ctx context.Context, a execIface, args []string) error { return a.Report(ctx, args) },
	"backup":   func(ctx context.Context, a execIface, args []string) error { return a.Backup(ctx, args) },
	"barcode":  func(ctx context.Context, a execIface, args []string) error { return a.Barcode(ctx, args) },
	"dev":      func(ctx context.Context, a execIface, args []string) error { return a.Dev(ctx, args) },
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
