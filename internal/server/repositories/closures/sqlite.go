package closures

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
	"github.com/shopspring/decimal"
)

const columns = `id, closed_at, expected_total, cash_total, card_total, transfer_total, arqueo_cash, discrepancy, total_transactions, notes`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanClosure(s dbx.Scanner) (*models.ShiftClosure, error) {
	var (
		c      models.ShiftClosure
		closed timex.NullTime
		arqueo decimal.NullDecimal
		notes  sql.NullString
	)
	if err := s.Scan(&c.ID, &closed, &c.ExpectedTotal, &c.CashTotal, &c.CardTotal, &c.TransferTotal,
		&arqueo, &c.Discrepancy, &c.TotalTransactions, &notes); err != nil {
		return nil, err
	}
	c.ClosedAt = closed.Time
	c.ArqueoCash = dbx.DecimalPtr(arqueo)
	c.Notes = dbx.StringPtr(notes)
	return &c, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, c *models.ShiftClosure) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shift_closures (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, timex.Format(c.ClosedAt), c.ExpectedTotal, c.CashTotal, c.CardTotal, c.TransferTotal,
		c.ArqueoCash, c.Discrepancy, c.TotalTransactions, c.Notes)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// LatestBetween returns the newest closure with from <= closed_at <= to.
func (r *SQLiteRepository) LatestBetween(ctx context.Context, from, to time.Time) (*models.ShiftClosure, error) {
	c, err := scanClosure(r.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM shift_closures
		 WHERE closed_at >= ? AND closed_at <= ?
		 ORDER BY closed_at DESC LIMIT 1`,
		timex.Format(from), timex.Format(to)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// List returns closures newest first.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]models.ShiftClosure, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+columns+` FROM shift_closures ORDER BY closed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.ShiftClosure
	for rows.Next() {
		c, err := scanClosure(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
