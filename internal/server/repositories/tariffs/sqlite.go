package tariffs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
)

const insertColumns = `id, vehicle_type, plate_or_ref, name, description, amount, rate_unit, rate_duration_hours, rate_duration_minutes, created_at`

const columns = `id, vehicle_type, COALESCE(plate_or_ref, ''), COALESCE(name, ''), COALESCE(description, ''), amount, rate_unit, rate_duration_hours, rate_duration_minutes, created_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanTariff(s dbx.Scanner) (*models.Tariff, error) {
	var (
		t       models.Tariff
		created timex.NullTime
	)
	if err := s.Scan(&t.ID, &t.VehicleType, &t.PlateOrRef, &t.Name, &t.Description, &t.Amount,
		&t.RateUnit, &t.RateDurationHours, &t.RateDurationMinutes, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = created.Time
	return &t, nil
}

func (r *SQLiteRepository) one(ctx context.Context, query string, args ...any) (*models.Tariff, error) {
	t, err := scanTariff(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// DefaultFor returns the type-level row, the one with no plate.
func (r *SQLiteRepository) DefaultFor(ctx context.Context, vt models.VehicleType) (*models.Tariff, error) {
	return r.one(ctx,
		`SELECT `+columns+` FROM custom_tariffs
		 WHERE vehicle_type = ? AND COALESCE(plate_or_ref, '') = ''
		 LIMIT 1`, string(vt))
}

func (r *SQLiteRepository) ForPlate(ctx context.Context, vt models.VehicleType, plate string) (*models.Tariff, error) {
	return r.one(ctx,
		`SELECT `+columns+` FROM custom_tariffs
		 WHERE vehicle_type = ? AND plate_or_ref = ?
		 LIMIT 1`, string(vt), plate)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Tariff, error) {
	return r.one(ctx, `SELECT `+columns+` FROM custom_tariffs WHERE id = ?`, id)
}

// List matches search against name, plate, description and type.
func (r *SQLiteRepository) List(ctx context.Context, search string, limit int) ([]models.Tariff, error) {
	query := `SELECT ` + columns + ` FROM custom_tariffs`
	args := []any{}
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query += ` WHERE LOWER(COALESCE(name, '')) LIKE ?
			OR LOWER(COALESCE(plate_or_ref, '')) LIKE ?
			OR LOWER(COALESCE(description, '')) LIKE ?
			OR LOWER(vehicle_type) LIKE ?`
		args = append(args, like, like, like, like)
	}
	query += ` ORDER BY vehicle_type ASC, COALESCE(plate_or_ref, '') ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Tariff
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Exists reports whether another row already holds (vt, plate).
func (r *SQLiteRepository) Exists(ctx context.Context, vt models.VehicleType, plate, excludeID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM custom_tariffs
		 WHERE vehicle_type = ? AND COALESCE(plate_or_ref, '') = ? AND id != ?`,
		string(vt), plate, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Tariff) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO custom_tariffs (`+insertColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, string(t.VehicleType), t.PlateOrRef, nullable(t.Name), nullable(t.Description), t.Amount,
		string(t.RateUnit), t.RateDurationHours, t.RateDurationMinutes, timex.Format(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t *models.Tariff) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE custom_tariffs SET vehicle_type = ?, plate_or_ref = ?, name = ?, description = ?, amount = ?,
		 rate_unit = ?, rate_duration_hours = ?, rate_duration_minutes = ?
		 WHERE id = ?`,
		string(t.VehicleType), t.PlateOrRef, nullable(t.Name), nullable(t.Description), t.Amount,
		string(t.RateUnit), t.RateDurationHours, t.RateDurationMinutes, t.ID)
	return expectOne(res, err)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM custom_tariffs WHERE id = ?`, id)
	return expectOne(res, err)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func expectOne(res sql.Result, err error) error {
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
