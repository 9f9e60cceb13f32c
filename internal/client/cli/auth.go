package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/parkdesk/internal/client/client"
	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
)

func (a *App) Login(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword("Password", a.out)
	if err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return fmt.Errorf("login unsuccessful: %w", err)
	}

	a.userName = resp.Username
	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", resp.Username, resp.RoleID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.api.CurrentUser(ctx)
	if err != nil {
		return err
	}
	perms, err := a.api.MyPermissions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s), role %s\n", u.Username, u.ID, u.RoleID)
	groups := permissions.Group(perms)
	domains := make([]string, 0, len(groups))
	for d := range groups {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	for _, d := range domains {
		fmt.Fprintf(a.out, "  %s: %s\n", d, strings.Join(groups[d], ", "))
	}
	return nil
}

// ResetPassword recovers an account with the developer password. It works
// without a session.
func (a *App) ResetPassword(ctx context.Context) error {
	dev, err := GetPassword("Developer password", a.out)
	if err != nil {
		return err
	}
	target, err := GetSimpleText(a.reader, "Account to reset (admin, developer, username or id)", a.out)
	if err != nil {
		return err
	}
	next, err := a.newPassword()
	if err != nil {
		return err
	}
	if err := a.api.ResetPasswordWithDeveloper(ctx, dev, target, next); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password reset")
	return nil
}

// ChangePassword without arguments changes the admin password and marks the
// first run as done; with a user id it sets that user's password.
func (a *App) ChangePassword(ctx context.Context, args []string) error {
	if len(args) > 0 {
		next, err := a.newPassword()
		if err != nil {
			return err
		}
		if err := a.api.SetPassword(ctx, args[0], next); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Password updated")
		return nil
	}

	current, err := GetPassword("Current admin password", a.out)
	if err != nil {
		return err
	}
	next, err := a.newPassword()
	if err != nil {
		return err
	}
	if err := a.api.ChangeAdminPassword(ctx, current, next); err != nil {
		return err
	}
	if err := a.api.CompleteFirstRun(ctx); err != nil && !errors.Is(err, common.ErrorPermissionDenied) {
		return err
	}
	fmt.Fprintln(a.out, "Admin password changed")
	return nil
}

func (a *App) newPassword() (string, error) {
	next, err := GetPassword("New password", a.out)
	if err != nil {
		return "", err
	}
	again, err := GetPassword("Repeat new password", a.out)
	if err != nil {
		return "", err
	}
	if next != again {
		return "", errors.New("passwords do not match")
	}
	return next, nil
}

func (a *App) Users(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	tw := newTable(a.out, "ID", "USERNAME", "NAME", "ROLE")
	for _, u := range users {
		tw.row(u.ID, u.Username, u.DisplayName, u.RoleID)
	}
	return tw.flush()
}

func (a *App) AddUser(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Display name", a.out)
	if err != nil {
		return err
	}
	role, err := GetSimpleText(a.reader, "Role id (empty for "+permissions.RoleOperator+")", a.out)
	if err != nil {
		return err
	}
	if role == "" {
		role = permissions.RoleOperator
	}
	password, err := a.newPassword()
	if err != nil {
		return err
	}

	u, err := a.api.CreateUser(ctx, &rpc.CreateUserRequest{Username: username, Password: password, DisplayName: name, RoleID: role})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s created (%s)\n", u.Username, u.ID)
	return nil
}
