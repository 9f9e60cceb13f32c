package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/reports"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
)

// ReportService runs the fixed report projections and renders them as CSV.
type ReportService struct {
	base
}

func NewReportService(db *sql.DB, m repomanager.RepositoryManager, opts ...Option) *ReportService {
	return &ReportService{base: newBase(db, m, "reports", opts)}
}

func authorizeReport(ctx context.Context, t models.ReportType) error {
	session, err := authorize(ctx, permissions.ReportsExport)
	if err != nil {
		return err
	}
	if t == models.ReportDebtors {
		return session.Require(permissions.DebtorsRead)
	}
	return nil
}

// ColumnDefinitions lists the columns a report type offers.
func (s *ReportService) ColumnDefinitions(ctx context.Context, t models.ReportType) ([]models.ReportColumn, error) {
	if err := authorizeReport(ctx, t); err != nil {
		return nil, err
	}
	return reports.Columns(t)
}

// Fetch runs report t over the selected column keys; none selects all of
// them. The date filter covers whole UTC days from DateFrom to DateTo.
func (s *ReportService) Fetch(ctx context.Context, t models.ReportType, columns []string, f models.ReportFilter) (*models.ReportData, error) {
	if err := authorizeReport(ctx, t); err != nil {
		return nil, err
	}
	all, err := reports.Columns(t)
	if err != nil {
		return nil, err
	}
	selected, err := selectColumns(all, columns)
	if err != nil {
		return nil, err
	}

	q := reports.Query{Type: t, Columns: selected}
	if q.From, q.To, err = s.dayRange(f.DateFrom, f.DateTo); err != nil {
		return nil, err
	}
	if f.PaymentMethod != "" {
		m := models.PaymentMethod(strings.ToLower(strings.TrimSpace(string(f.PaymentMethod))))
		if models.ParsePaymentMethod(string(m)) != m {
			return nil, validation("invalid payment method: %s", f.PaymentMethod)
		}
		q.Method = m
	}
	if f.VehicleType != "" {
		vt, ok := models.ParseVehicleType(string(f.VehicleType))
		if !ok {
			return nil, validation("invalid vehicle type: %s", f.VehicleType)
		}
		q.VehicleType = vt
	}

	rows, err := s.repomanager.Reports(s.db).Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "report fetched", "type", t, "rows", len(rows))
	return &models.ReportData{Columns: selected, Rows: rows}, nil
}

// dayRange turns inclusive days into [from midnight, midnight after to).
// Zero days default to today.
func (s *ReportService) dayRange(from, to time.Time) (time.Time, time.Time, error) {
	today := timex.StartOfDay(s.now())
	if from.IsZero() {
		from = today
	}
	if to.IsZero() {
		to = today
	}
	from, to = timex.StartOfDay(from), timex.StartOfDay(to)
	if to.Before(from) {
		return time.Time{}, time.Time{}, validation("date range end is before its start")
	}
	return from, to.AddDate(0, 0, 1), nil
}

func selectColumns(all []models.ReportColumn, keys []string) ([]models.ReportColumn, error) {
	if len(keys) == 0 {
		return all, nil
	}
	byKey := make(map[string]models.ReportColumn, len(all))
	for _, c := range all {
		byKey[c.Key] = c
	}
	out := make([]models.ReportColumn, 0, len(keys))
	for _, k := range keys {
		c, ok := byKey[strings.TrimSpace(k)]
		if !ok {
			return nil, validation("unknown column: %s", k)
		}
		out = append(out, c)
	}
	return out, nil
}

// WriteCSV writes a header of column labels followed by one line per row.
func WriteCSV(w io.Writer, data *models.ReportData) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(data.Columns))
	for i, c := range data.Columns {
		header[i] = c.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(data.Columns))
	for _, row := range data.Rows {
		for i, c := range data.Columns {
			record[i] = cell(row[c.Key])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return timex.Format(x)
	default:
		return fmt.Sprint(x)
	}
}
