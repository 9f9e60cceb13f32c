package cli

import (
	"bufio"
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the operator, offers a login and runs the REPL on stdin.
func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to ParkDesk console (type 'help' for commands)")

	if done, err := a.api.FirstRunStatus(ctx); err == nil && !done {
		fmt.Fprintln(a.out, "First run: log in as admin/admin and change the password with 'passwd'.")
	}

	report(a.Login(ctx))

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
