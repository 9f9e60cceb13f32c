package users

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

const selectUser = `SELECT u.id, u.username, u.password_hash, u.display_name, u.role_id, COALESCE(r.name, ''), u.created_at, u.hidden
	FROM users u LEFT JOIN roles r ON r.id = u.role_id`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func scanUser(s dbx.Scanner) (*models.User, error) {
	var (
		u       models.User
		created timex.NullTime
	)
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.RoleID, &u.RoleName, &created, &u.Hidden); err != nil {
		return nil, err
	}
	u.CreatedAt = created.Time
	return &u, nil
}

func (r *SQLiteRepository) one(ctx context.Context, query string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, display_name, role_id, created_at, hidden)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.DisplayName, u.RoleID, timex.Format(u.CreatedAt), u.Hidden)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.one(ctx, selectUser+` WHERE u.id = ?`, id)
}

// GetByUsername matches case-insensitively.
func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.one(ctx, selectUser+` WHERE LOWER(u.username) = LOWER(?)`, username)
}

// List returns visible users ordered by username.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` WHERE u.hidden = 0 ORDER BY LOWER(u.username)`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE LOWER(username) = LOWER(?) AND id != ?`, username, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id, displayName, roleID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, role_id = ? WHERE id = ?`, displayName, roleID, id)
	return expectOne(res, err)
}

func (r *SQLiteRepository) SetPassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	return expectOne(res, err)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return expectOne(res, err)
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
