package transactions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
	"github.com/shopspring/decimal"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, vehicle_id, amount, method, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.VehicleID, t.Amount, string(t.Method), timex.Format(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ByVehicle(ctx context.Context, vehicleID string) ([]models.Transaction, error) {
	return r.queryMany(ctx,
		`SELECT id, vehicle_id, amount, method, created_at FROM transactions
		 WHERE vehicle_id = ? ORDER BY created_at ASC`, vehicleID)
}

// Recent returns the newest limit transactions, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.Transaction, error) {
	return r.queryMany(ctx,
		`SELECT id, vehicle_id, amount, method, created_at FROM transactions
		 ORDER BY created_at DESC LIMIT ?`, limit)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var (
			t  models.Transaction
			at timex.NullTime
		)
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.Amount, &t.Method, &at); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		t.CreatedAt = at.Time
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteByVehicle(ctx context.Context, vehicleID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE vehicle_id = ?`, vehicleID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Summarize sums amounts per payment method over the window and counts the
// transactions in it.
func (r *SQLiteRepository) Summarize(ctx context.Context, w Window) (models.Breakdown, int, error) {
	lower := `created_at >= ?`
	if w.AfterFrom {
		lower = `created_at > ?`
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT LOWER(method), COALESCE(SUM(amount), 0), COUNT(*) FROM transactions
		 WHERE `+lower+` AND created_at <= ?
		 GROUP BY LOWER(method)`,
		timex.Format(w.From), timex.Format(w.To))
	if err != nil {
		return models.Breakdown{}, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var (
		b     models.Breakdown
		count int
	)
	for rows.Next() {
		var (
			method string
			sum    decimal.Decimal
			n      int
		)
		if err := rows.Scan(&method, &sum, &n); err != nil {
			return models.Breakdown{}, 0, fmt.Errorf("db error: %w", err)
		}
		b.Add(models.ParsePaymentMethod(method), sum.Round(2))
		count += n
	}
	if err := rows.Err(); err != nil {
		return models.Breakdown{}, 0, fmt.Errorf("db error: %w", err)
	}
	return b, count, nil
}
