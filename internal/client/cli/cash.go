package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/shopspring/decimal"
)

const (
	dayLayout     = "2006-01-02"
	closuresLimit = 20
)

func (a *App) Rates(ctx context.Context, args []string) error {
	t := newTable(a.out, "TYPE", "DEFAULT RATE")
	for _, vt := range models.VehicleTypes {
		rate, err := a.api.ResolveDefaultRate(ctx, string(vt))
		if err != nil {
			return err
		}
		t.row(string(vt), money(&rate))
	}
	if err := t.flush(); err != nil {
		return err
	}

	search := strings.Join(args, " ")
	tariffs, err := a.api.ListTariffs(ctx, search)
	if err != nil {
		return err
	}
	if len(tariffs) == 0 {
		return nil
	}
	t = newTable(a.out, "ID", "TYPE", "PLATE/REF", "NAME", "AMOUNT", "UNIT")
	for _, tr := range tariffs {
		ref := tr.PlateOrRef
		if ref == "" {
			ref = "(default)"
		}
		t.row(tr.ID, string(tr.VehicleType), ref, tr.Name, money(&tr.Amount), string(tr.RateUnit))
	}
	return t.flush()
}

func (a *App) Treasury(ctx context.Context) error {
	tr, err := a.api.GetTreasury(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Transactions today: %d\n", tr.TotalTransactions)
	fmt.Fprintf(a.out, "Cash %s, card %s, transfer %s\n",
		money(&tr.Breakdown.Cash), money(&tr.Breakdown.Card), money(&tr.Breakdown.Transfer))
	fmt.Fprintf(a.out, "Expected cash: %s\n", money(&tr.ExpectedCash))
	return nil
}

// CloseShift closes the current shift. The optional argument is the counted
// cash; notes are asked for interactively.
func (a *App) CloseShift(ctx context.Context, args []string) error {
	var counted *decimal.Decimal
	if len(args) > 0 {
		d, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		counted = d
	}

	notes, err := GetMultiline(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}

	c, err := a.api.CloseShift(ctx, counted, notes)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Shift closed at %s: expected %s, counted %s, discrepancy %s, %d transactions\n",
		stamp(&c.ClosedAt), money(&c.ExpectedTotal), money(c.ArqueoCash), money(&c.Discrepancy), c.TotalTransactions)
	return nil
}

func (a *App) Closures(ctx context.Context) error {
	list, err := a.api.ListShiftClosures(ctx, closuresLimit)
	if err != nil {
		return err
	}
	t := newTable(a.out, "CLOSED", "EXPECTED", "CASH", "CARD", "TRANSFER", "COUNTED", "DISCREPANCY", "TX")
	for _, c := range list {
		t.row(stamp(&c.ClosedAt), money(&c.ExpectedTotal), money(&c.CashTotal), money(&c.CardTotal),
			money(&c.TransferTotal), money(c.ArqueoCash), money(&c.Discrepancy), strconv.Itoa(c.TotalTransactions))
	}
	return t.flush()
}

func (a *App) Metrics(ctx context.Context) error {
	m, err := a.api.DailyMetrics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Vehicles today: %d (active %d, completed %d)\n", m.TotalVehicles, m.ActiveVehicles, m.CompletedToday)
	fmt.Fprintf(a.out, "Revenue: %s, average ticket %s\n", m.TotalRevenue.StringFixed(2), m.AverageTicket.StringFixed(2))
	fmt.Fprintf(a.out, "Occupancy %.1f%%, turnover %.2f, average stay %.0f min\n",
		m.OccupancyRate, m.TurnoverRate, m.AverageStayMinutes)
	return nil
}

// Report prints a report table. Days default to today; a single day
// argument covers just that day.
func (a *App) Report(ctx context.Context, args []string) error {
	if len(args) == 0 {
		names := make([]string, 0, len(models.ReportTypes))
		for _, t := range models.ReportTypes {
			names = append(names, string(t))
		}
		return fmt.Errorf("%w (types: %s)", errUsage, strings.Join(names, ", "))
	}

	req := &rpc.FetchReportRequest{Type: models.ReportType(args[0])}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	req.DateFrom, req.DateTo = today, today

	if len(args) > 1 {
		d, err := time.Parse(dayLayout, args[1])
		if err != nil {
			return fmt.Errorf("invalid day %q, want YYYY-MM-DD", args[1])
		}
		req.DateFrom, req.DateTo = d, d
	}
	if len(args) > 2 {
		d, err := time.Parse(dayLayout, args[2])
		if err != nil {
			return fmt.Errorf("invalid day %q, want YYYY-MM-DD", args[2])
		}
		req.DateTo = d
	}

	data, err := a.api.FetchReport(ctx, req)
	if err != nil {
		return err
	}

	headers := make([]string, len(data.Columns))
	for i, c := range data.Columns {
		headers[i] = strings.ToUpper(c.Label)
	}
	t := newTable(a.out, headers...)
	for _, row := range data.Rows {
		cells := make([]string, len(data.Columns))
		for i, c := range data.Columns {
			if v := row[c.Key]; v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		t.row(cells...)
	}
	if err := t.flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d rows\n", len(data.Rows))
	return nil
}
