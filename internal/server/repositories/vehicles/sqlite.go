package vehicles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
	"github.com/shopspring/decimal"
)

const columns = `id, ticket_code, plate, vehicle_type, COALESCE(observations, ''), entry_time, exit_time, status, total_amount, debt, special_rate`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanVehicle(s dbx.Scanner) (*models.Vehicle, error) {
	var (
		v                  models.Vehicle
		entry, exit        timex.NullTime
		total, debt, price decimal.NullDecimal
	)
	if err := s.Scan(&v.ID, &v.TicketCode, &v.Plate, &v.VehicleType, &v.Observations,
		&entry, &exit, &v.Status, &total, &debt, &price); err != nil {
		return nil, err
	}
	v.EntryTime = entry.Time
	v.ExitTime = exit.Ptr()
	v.TotalAmount = dbx.DecimalPtr(total)
	v.Debt = dbx.DecimalPtr(debt)
	v.SpecialRate = dbx.DecimalPtr(price)
	return &v, nil
}

func (r *SQLiteRepository) queryOne(ctx context.Context, query string, args ...any) (*models.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) queryMany(ctx context.Context, query string, args ...any) ([]models.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, v *models.Vehicle) error {
	query :=
		`INSERT INTO vehicles (id, ticket_code, plate, plate_upper, vehicle_type, observations, entry_time, status, debt, special_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var obs any
	if v.Observations != "" {
		obs = v.Observations
	}
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.TicketCode, v.Plate, models.NormalizePlate(v.Plate), string(v.VehicleType), obs,
		timex.Format(v.EntryTime), string(v.Status), v.Debt, v.SpecialRate)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return r.queryOne(ctx, `SELECT `+columns+` FROM vehicles WHERE id = ?`, id)
}

func (r *SQLiteRepository) ActiveByTicket(ctx context.Context, ticket string) (*models.Vehicle, error) {
	return r.queryOne(ctx, `SELECT `+columns+` FROM vehicles WHERE ticket_code = ? AND status = 'active' LIMIT 1`, ticket)
}

func (r *SQLiteRepository) ActiveByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	return r.queryOne(ctx, `SELECT `+columns+` FROM vehicles WHERE plate_upper = ? AND status = 'active' LIMIT 1`, plate)
}

// PlateTypes returns the distinct vehicle types plate has been seen under,
// in name order.
func (r *SQLiteRepository) PlateTypes(ctx context.Context, plate string) ([]models.VehicleType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT vehicle_type FROM vehicles WHERE plate_upper = ? ORDER BY vehicle_type`, plate)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var types []models.VehicleType
	for rows.Next() {
		var t models.VehicleType
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return types, nil
}

// PlateDebt sums the positive debt over every session of plate.
func (r *SQLiteRepository) PlateDebt(ctx context.Context, plate string) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(debt), 0) FROM vehicles WHERE plate_upper = ? AND COALESCE(debt, 0) > 0`, plate).Scan(&d)
	if err != nil {
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) TotalDebt(ctx context.Context) (decimal.Decimal, error) {
	var d decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(debt), 0) FROM vehicles WHERE plate_upper != '' AND COALESCE(debt, 0) > 0`).Scan(&d)
	if err != nil {
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// List returns sessions newest entry first. An empty status lists all.
func (r *SQLiteRepository) List(ctx context.Context, status models.SessionStatus, limit, offset int) ([]models.Vehicle, error) {
	if status == "" {
		return r.queryMany(ctx,
			`SELECT `+columns+` FROM vehicles ORDER BY entry_time DESC LIMIT ? OFFSET ?`, limit, offset)
	}
	return r.queryMany(ctx,
		`SELECT `+columns+` FROM vehicles WHERE status = ? ORDER BY entry_time DESC LIMIT ? OFFSET ?`,
		string(status), limit, offset)
}

func (r *SQLiteRepository) Count(ctx context.Context, status models.SessionStatus) (int, error) {
	var (
		n   int
		err error
	)
	if status == "" {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE status = ?`, string(status)).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ByPlate(ctx context.Context, plate string) ([]models.Vehicle, error) {
	return r.queryMany(ctx, `SELECT `+columns+` FROM vehicles WHERE plate_upper = ? ORDER BY entry_time DESC`, plate)
}

func (r *SQLiteRepository) DebtDetails(ctx context.Context, plate string) ([]models.DebtDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, plate, debt, entry_time, exit_time FROM vehicles
		 WHERE plate_upper = ? AND COALESCE(debt, 0) > 0
		 ORDER BY entry_time ASC`, plate)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.DebtDetail
	for rows.Next() {
		var (
			d           models.DebtDetail
			entry, exit timex.NullTime
		)
		if err := rows.Scan(&d.VehicleID, &d.Plate, &d.Debt, &entry, &exit); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		d.EntryTime = entry.Time
		d.ExitTime = exit.Ptr()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Debtors aggregates outstanding debt per plate, largest first.
func (r *SQLiteRepository) Debtors(ctx context.Context) ([]models.Debtor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT plate_upper, SUM(debt) AS total_debt, MIN(exit_time), COUNT(*)
		 FROM vehicles
		 WHERE plate_upper != '' AND COALESCE(debt, 0) > 0
		 GROUP BY plate_upper
		 ORDER BY total_debt DESC, plate_upper ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Debtor
	for rows.Next() {
		var (
			d      models.Debtor
			oldest timex.NullTime
		)
		if err := rows.Scan(&d.Plate, &d.TotalDebt, &oldest, &d.SessionsWithDebt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		d.OldestExitTime = oldest.Ptr()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) SearchPlates(ctx context.Context, prefix string, limit int) ([]string, error) {
	return r.strings(ctx,
		`SELECT DISTINCT plate_upper FROM vehicles
		 WHERE plate_upper != '' AND plate_upper LIKE ? ESCAPE '\'
		 ORDER BY plate_upper LIMIT ?`, escapeLike(prefix)+"%", limit)
}

// ConflictingPlates lists plates seen under more than one vehicle type.
func (r *SQLiteRepository) ConflictingPlates(ctx context.Context) ([]string, error) {
	return r.strings(ctx,
		`SELECT plate_upper FROM vehicles
		 WHERE plate_upper != ''
		 GROUP BY plate_upper
		 HAVING COUNT(DISTINCT vehicle_type) > 1
		 ORDER BY plate_upper`)
}

func (r *SQLiteRepository) CompletedBetween(ctx context.Context, from, to time.Time) ([]models.Vehicle, error) {
	return r.queryMany(ctx,
		`SELECT `+columns+` FROM vehicles
		 WHERE status = 'completed' AND exit_time >= ? AND exit_time < ?
		 ORDER BY exit_time ASC`, timex.Format(from), timex.Format(to))
}

// Complete moves an active session to completed. It returns
// common.ErrorNotFound when the session is no longer active.
func (r *SQLiteRepository) Complete(ctx context.Context, id string, exit time.Time, total decimal.Decimal, debt *decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET exit_time = ?, status = 'completed', total_amount = ?, debt = ?
		 WHERE id = ? AND status = 'active'`,
		timex.Format(exit), total, debt, id)
	return expectOne(res, err)
}

// Remove moves an active session to removed without charging it.
func (r *SQLiteRepository) Remove(ctx context.Context, id string, exit time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET exit_time = ?, status = 'removed', total_amount = NULL, debt = NULL
		 WHERE id = ? AND status = 'active'`,
		timex.Format(exit), id)
	return expectOne(res, err)
}

// ClearPlateDebt zeroes the debt of every other session of plate.
func (r *SQLiteRepository) ClearPlateDebt(ctx context.Context, plate, exceptID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE vehicles SET debt = 0 WHERE plate_upper = ? AND id != ? AND COALESCE(debt, 0) > 0`,
		plate, exceptID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes one session row. Its transactions must be gone already.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	return expectOne(res, err)
}

func (r *SQLiteRepository) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
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

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
