package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

const listPageSize = 50

var errUsage = errors.New("wrong arguments, type 'help' for usage")

func (a *App) Entry(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	req := &rpc.EntryRequest{VehicleType: args[0]}
	if len(args) > 1 {
		req.Plate = args[1]
	}
	if len(args) > 2 {
		req.TicketCode = args[2]
	}

	v, err := a.api.RegisterEntry(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ticket %s issued for %s %s at %s\n", v.TicketCode, v.VehicleType, v.Plate, stamp(&v.EntryTime))
	return nil
}

func (a *App) Exit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	req := &rpc.ExitRequest{TicketCode: args[0]}
	if len(args) > 1 {
		req.PaymentMethod = args[1]
	}
	if len(args) > 2 {
		paid, err := parseAmount(args[2])
		if err != nil {
			return err
		}
		req.PartialPayment = paid
	}

	v, err := a.api.ProcessExit(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exit %s: total %s, debt %s\n", v.TicketCode, money(v.TotalAmount), money(v.Debt))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	v, err := a.api.RemoveFromParking(ctx, "", args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed %s (%s)\n", v.TicketCode, v.Plate)
	return nil
}

func (a *App) List(ctx context.Context, args []string) error {
	status := string(models.StatusActive)
	if len(args) > 0 {
		status = args[0]
	}
	offset := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return errUsage
		}
		offset = n
	}

	list, err := a.api.ListVehicles(ctx, status, listPageSize, offset)
	if err != nil {
		return err
	}
	printVehicles(a, list.Items)
	fmt.Fprintf(a.out, "%d of %d\n", len(list.Items), list.Total)
	return nil
}

func (a *App) Find(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	v, err := a.api.FindByTicket(ctx, args[0])
	if err != nil {
		return err
	}
	printVehicles(a, []models.Vehicle{*v})
	return nil
}

func printVehicles(a *App, items []models.Vehicle) {
	t := newTable(a.out, "TICKET", "PLATE", "TYPE", "STATUS", "ENTRY", "EXIT", "TOTAL", "DEBT")
	for _, v := range items {
		t.row(v.TicketCode, v.Plate, string(v.VehicleType), string(v.Status),
			stamp(&v.EntryTime), stamp(v.ExitTime), money(v.TotalAmount), money(v.Debt))
	}
	t.flush()
}

func (a *App) Debtors(ctx context.Context) error {
	debtors, err := a.api.ListDebtors(ctx)
	if err != nil {
		return err
	}
	total, err := a.api.TotalDebt(ctx)
	if err != nil {
		return err
	}
	t := newTable(a.out, "PLATE", "DEBT", "SESSIONS", "OLDEST EXIT")
	for _, d := range debtors {
		t.row(d.Plate, money(&d.TotalDebt), strconv.Itoa(d.SessionsWithDebt), stamp(d.OldestExitTime))
	}
	if err := t.flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Total debt: %s\n", money(&total))
	return nil
}

func (a *App) Debt(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	plate := models.NormalizePlate(args[0])
	total, err := a.api.PlateDebt(ctx, plate)
	if err != nil {
		return err
	}
	details, err := a.api.DebtDetailByPlate(ctx, plate)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s owes %s\n", plate, money(&total))
	if len(details) == 0 {
		return nil
	}
	t := newTable(a.out, "SESSION", "DEBT", "ENTRY", "EXIT")
	for _, d := range details {
		t.row(d.VehicleID, money(&d.Debt), stamp(&d.EntryTime), stamp(d.ExitTime))
	}
	return t.flush()
}
