package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	err      error
}

func (f *fakeExec) record(name string, args ...string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(ctx context.Context) error        { return f.record("whoami") }
func (f *fakeExec) ResetPassword(ctx context.Context) error { return f.record("reset") }
func (f *fakeExec) ChangePassword(ctx context.Context, args []string) error {
	return f.record("passwd", args...)
}
func (f *fakeExec) Users(ctx context.Context) error   { return f.record("users") }
func (f *fakeExec) AddUser(ctx context.Context) error { return f.record("adduser") }
func (f *fakeExec) Entry(ctx context.Context, args []string) error {
	return f.record("entry", args...)
}
func (f *fakeExec) Exit(ctx context.Context, args []string) error { return f.record("out", args...) }
func (f *fakeExec) Remove(ctx context.Context, args []string) error {
	return f.record("remove", args...)
}
func (f *fakeExec) List(ctx context.Context, args []string) error { return f.record("list", args...) }
func (f *fakeExec) Find(ctx context.Context, args []string) error { return f.record("find", args...) }
func (f *fakeExec) Debtors(ctx context.Context) error             { return f.record("debtors") }
func (f *fakeExec) Debt(ctx context.Context, args []string) error { return f.record("debt", args...) }
func (f *fakeExec) Rates(ctx context.Context, args []string) error {
	return f.record("rates", args...)
}
func (f *fakeExec) Treasury(ctx context.Context) error { return f.record("treasury") }
func (f *fakeExec) CloseShift(ctx context.Context, args []string) error {
	return f.record("close", args...)
}
func (f *fakeExec) Closures(ctx context.Context) error { return f.record("closures") }
func (f *fakeExec) Metrics(ctx context.Context) error  { return f.record("metrics") }
func (f *fakeExec) Report(ctx context.Context, args []string) error {
	return f.record("report", args...)
}
func (f *fakeExec) Backup(ctx context.Context, args []string) error {
	return f.record("backup", args...)
}
func (f *fakeExec) Barcode(ctx context.Context, args []string) error {
	return f.record("barcode", args...)
}
func (f *fakeExec) Dev(ctx context.Context, args []string) error { return f.record("dev", args...) }

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &lines
}

func run(f *fakeExec, input string) {
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(strings.NewReader(input)))
}

func TestREPL_RequiresLogin(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{}

	run(f, "treasury\nbogus\nexit\n")

	assert.Empty(t, f.calls)
	assert.Contains(t, *out, "Please login first")
	assert.Contains(t, *out, "Unknown command: bogus")
	assert.Contains(t, *out, "Bye!")
}

func TestREPL_DispatchesWithArgs(t *testing.T) {
	captureOutput(t)
	f := &fakeExec{}

	run(f, "login\nentry car abc123\nout TK1 card 20\nl completed\nreport debtors 2026-01-01\nlogout\ntreasury\n")

	assert.Equal(t, []string{
		"login",
		"entry car abc123",
		"out TK1 card 20",
		"list completed",
		"report debtors 2026-01-01",
		"logout",
	}, f.calls)
}

func TestREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)
	f := &fakeExec{loggedIn: true, err: errors.New("boom")}

	run(f, "debtors\n\nmetrics\nquit\n")

	assert.Equal(t, []string{"debtors", "metrics"}, f.calls)
	assert.Contains(t, *out, "Error: boom")
}

func TestREPL_Help(t *testing.T) {
	out := captureOutput(t)

	run(&fakeExec{}, "help\n")
	assert.Contains(t, *out, helpLoggedOut)

	*out = nil
	run(&fakeExec{loggedIn: true}, "help\n")
	assert.Contains(t, *out, helpLoggedIn)
}

func TestREPL_ResetWorksLoggedOut(t *testing.T) {
	captureOutput(t)
	f := &fakeExec{}

	run(f, "reset\n")

	assert.Equal(t, []string{"reset"}, f.calls)
}
