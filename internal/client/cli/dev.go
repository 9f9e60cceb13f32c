package cli

import (
	"context"
	"fmt"
	"strings"
)

// Dev runs the developer console: "dev snapshot", "dev path", "dev clear",
// "dev reset <user-id>" and "dev commands". The server enforces
// dev:console:access on each of them.
func (a *App) Dev(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "snapshot":
		snap, err := a.api.DevSnapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Vehicles: %d, transactions: %d\n", snap.VehiclesCount, snap.TransactionsCount)
		t := newTable(a.out, "TICKET", "PLATE", "TYPE", "STATUS", "ENTRY")
		for _, v := range snap.LastVehicles {
			t.row(v.TicketCode, v.Plate, string(v.VehicleType), string(v.Status), stamp(&v.EntryTime))
		}
		if err := t.flush(); err != nil {
			return err
		}
		t = newTable(a.out, "CREATED", "VEHICLE", "AMOUNT", "METHOD")
		for _, tx := range snap.LastTransactions {
			t.row(stamp(&tx.CreatedAt), tx.VehicleID, tx.Amount.StringFixed(2), string(tx.Method))
		}
		return t.flush()

	case "path":
		p, err := a.api.DevDatabasePath(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, p)
		return nil

	case "clear":
		answer, err := GetSimpleText(a.reader, "Clear deletes every vehicle, payment, closure and user. Type 'yes' to continue", a.out)
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "yes") {
			fmt.Fprintln(a.out, "Clear cancelled")
			return nil
		}
		if err := a.api.DevClearDatabase(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Database cleared; sign in again as admin/admin")
		return nil

	case "reset":
		if len(args) < 2 {
			return errUsage
		}
		next, err := GetPassword("New password", a.out)
		if err != nil {
			return err
		}
		if err := a.api.DevResetUserPassword(ctx, args[1], next); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Password updated")
		return nil

	case "commands":
		cmds, err := a.api.DevListCommands(ctx)
		if err != nil {
			return err
		}
		for i, c := range cmds {
			fmt.Fprintf(a.out, "%d. %s\n", i+1, c)
		}
		return nil
	}

	return errUsage
}
