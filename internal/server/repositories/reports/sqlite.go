package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
)

type column struct {
	models.ReportColumn
	expr string
}

// source describes how one report type is read. Empty filter columns mean
// the filter does not apply to the type.
type source struct {
	columns   []column
	from      string
	where     string
	dateCol   string
	methodCol string
	typeCol   string
	groupBy   string
	orderBy   string
}

func col(key, label, expr string) column {
	return column{ReportColumn: models.ReportColumn{Key: key, Label: label}, expr: expr}
}

var sources = map[models.ReportType]source{
	models.ReportTransactions: {
		columns: []column{
			col("id", "ID", "id"),
			col("vehicle_id", "Vehicle ID", "vehicle_id"),
			col("amount", "Amount", "amount"),
			col("method", "Payment method", "method"),
			col("created_at", "Created at", "created_at"),
		},
		from:      "transactions",
		dateCol:   "created_at",
		methodCol: "method",
		orderBy:   "created_at ASC",
	},
	models.ReportCompletedVehicles: {
		columns: []column{
			col("id", "ID", "id"),
			col("ticket_code", "Ticket", "ticket_code"),
			col("plate", "Plate", "plate"),
			col("vehicle_type", "Vehicle type", "vehicle_type"),
			col("entry_time", "Entry time", "entry_time"),
			col("exit_time", "Exit time", "exit_time"),
			col("total_amount", "Total amount", "total_amount"),
			col("debt", "Debt", "debt"),
		},
		from:    "vehicles",
		where:   "status = 'completed' AND exit_time IS NOT NULL",
		dateCol: "exit_time",
		typeCol: "vehicle_type",
		orderBy: "exit_time ASC",
	},
	models.ReportVehicleExits: {
		columns: []column{
			col("id", "ID", "id"),
			col("ticket_code", "Ticket", "ticket_code"),
			col("plate", "Plate", "plate"),
			col("vehicle_type", "Vehicle type", "vehicle_type"),
			col("entry_time", "Entry time", "entry_time"),
			col("exit_time", "Exit time", "exit_time"),
			col("status", "Exit type", "status"),
			col("total_amount", "Total amount", "total_amount"),
			col("debt", "Debt", "debt"),
		},
		from:    "vehicles",
		where:   "status IN ('completed', 'removed') AND exit_time IS NOT NULL",
		dateCol: "exit_time",
		typeCol: "vehicle_type",
		orderBy: "exit_time ASC",
	},
	models.ReportShiftClosures: {
		columns: []column{
			col("id", "ID", "id"),
			col("closed_at", "Closed at", "closed_at"),
			col("expected_total", "Expected total", "expected_total"),
			col("cash_total", "Cash total", "cash_total"),
			col("card_total", "Card total", "card_total"),
			col("transfer_total", "Transfer total", "transfer_total"),
			col("arqueo_cash", "Counted cash", "arqueo_cash"),
			col("discrepancy", "Discrepancy", "discrepancy"),
			col("total_transactions", "Total transactions", "total_transactions"),
			col("notes", "Notes", "notes"),
		},
		from:    "shift_closures",
		dateCol: "closed_at",
		orderBy: "closed_at ASC",
	},
	models.ReportTransactionsWithVehicle: {
		columns: []column{
			col("transaction_id", "Transaction ID", "t.id"),
			col("created_at", "Created at", "t.created_at"),
			col("amount", "Amount", "t.amount"),
			col("method", "Payment method", "t.method"),
			col("vehicle_id", "Vehicle ID", "v.id"),
			col("ticket_code", "Ticket", "v.ticket_code"),
			col("plate", "Plate", "v.plate"),
			col("vehicle_type", "Vehicle type", "v.vehicle_type"),
			col("entry_time", "Entry time", "v.entry_time"),
			col("exit_time", "Exit time", "v.exit_time"),
		},
		from:      "transactions t JOIN vehicles v ON v.id = t.vehicle_id",
		dateCol:   "t.created_at",
		methodCol: "t.method",
		typeCol:   "v.vehicle_type",
		orderBy:   "t.created_at ASC",
	},
	models.ReportDebtors: {
		columns: []column{
			col("plate", "Plate", "plate_upper"),
			col("total_debt", "Total debt", "SUM(debt)"),
			col("oldest_exit_time", "Oldest exit (since)", "MIN(exit_time)"),
			col("sessions_with_debt", "Sessions with debt", "COUNT(*)"),
		},
		from:    "vehicles",
		where:   "plate_upper != '' AND COALESCE(debt, 0) > 0",
		groupBy: "plate_upper",
		orderBy: "SUM(debt) DESC, plate_upper ASC",
	},
}

// Columns returns every column of the report type in display order.
func Columns(t models.ReportType) ([]models.ReportColumn, error) {
	src, ok := sources[t]
	if !ok {
		return nil, fmt.Errorf("%w: unknown report type %q", common.ErrorValidation, t)
	}
	out := make([]models.ReportColumn, len(src.columns))
	for i, c := range src.columns {
		out[i] = c.ReportColumn
	}
	return out, nil
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (s source) build(q Query) (string, []any, []string, error) {
	exprs := make(map[string]string, len(s.columns))
	for _, c := range s.columns {
		exprs[c.Key] = c.expr
	}

	keys := make([]string, 0, len(q.Columns))
	selects := make([]string, 0, len(q.Columns))
	for _, c := range q.Columns {
		e, ok := exprs[c.Key]
		if !ok {
			return "", nil, nil, fmt.Errorf("%w: unknown column %q", common.ErrorValidation, c.Key)
		}
		keys = append(keys, c.Key)
		selects = append(selects, e)
	}

	var (
		conds []string
		args  []any
	)
	if s.where != "" {
		conds = append(conds, s.where)
	}
	if s.dateCol != "" {
		conds = append(conds, s.dateCol+" >= ?", s.dateCol+" < ?")
		args = append(args, timex.Format(q.From), timex.Format(q.To))
	}
	if s.methodCol != "" && q.Method != "" {
		conds = append(conds, "LOWER("+s.methodCol+") = ?")
		args = append(args, string(q.Method))
	}
	if s.typeCol != "" && q.VehicleType != "" {
		conds = append(conds, "LOWER("+s.typeCol+") = ?")
		args = append(args, string(q.VehicleType))
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(selects, ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.from)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	if s.groupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(s.groupBy)
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(s.orderBy)
	return b.String(), args, keys, nil
}

func (r *SQLiteRepository) Fetch(ctx context.Context, q Query) ([]map[string]any, error) {
	src, ok := sources[q.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unknown report type %q", common.ErrorValidation, q.Type)
	}
	query, args, keys, err := src.build(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(keys))
		ptrs := make([]any, len(keys))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		row := make(map[string]any, len(keys))
		for i, k := range keys {
			if b, ok := vals[i].([]byte); ok {
				vals[i] = string(b)
			}
			row[k] = vals[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
