package barcodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanBarcode(s dbx.Scanner) (*models.Barcode, error) {
	var (
		b       models.Barcode
		label   sql.NullString
		created timex.NullTime
	)
	if err := s.Scan(&b.ID, &b.Code, &label, &created); err != nil {
		return nil, err
	}
	b.Label = dbx.StringPtr(label)
	b.CreatedAt = created.Time
	return &b, nil
}

func (r *SQLiteRepository) one(ctx context.Context, query string, args ...any) (*models.Barcode, error) {
	b, err := scanBarcode(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Barcode, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, label, created_at FROM barcodes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Barcode
	for rows.Next() {
		b, err := scanBarcode(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Barcode, error) {
	return r.one(ctx, `SELECT id, code, label, created_at FROM barcodes WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByCode(ctx context.Context, code string) (*models.Barcode, error) {
	return r.one(ctx, `SELECT id, code, label, created_at FROM barcodes WHERE code = ?`, code)
}

func (r *SQLiteRepository) Create(ctx context.Context, b *models.Barcode) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO barcodes (id, code, label, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Code, b.Label, timex.Format(b.CreatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM barcodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
