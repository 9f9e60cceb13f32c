// Package migrations owns the schema ladder of the ParkDesk store and the
// post-migration synchronisation of built-in roles.
//
// Steps are goose migrations: embedded SQL files for additive DDL and Go
// functions for backfills, seeds and table rebuilds. goose's own version
// table records which steps ran; a recorded step is never re-run.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var Migrations embed.FS

// DeveloperPasswordHash is the PHC hash of the developer account, embedded
// at build time with -ldflags -X. Empty disables the developer account.
var DeveloperPasswordHash = ""

type options struct {
	logger        logging.Logger
	developerHash string
	target        int64
}

type Option func(*options)

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDeveloperHash overrides the build-time developer password hash.
func WithDeveloperHash(h string) Option {
	return func(o *options) { o.developerHash = h }
}

// WithTargetVersion stops the ladder at version v and skips role sync.
// Used to build stores as an older release would have left them.
func WithTargetVersion(v int64) Option {
	return func(o *options) { o.target = v }
}

func newProvider(db *sql.DB) (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectSQLite3, db, Migrations,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(goMigrations()...),
	)
}

// Migrate applies every pending step in ascending order, then synchronises
// built-in role grants and the developer account. Any error is fatal for
// the caller; steps already applied stay applied.
func Migrate(ctx context.Context, db *sql.DB, opts ...Option) error {
	o := options{logger: logging.Nop(), developerHash: DeveloperPasswordHash}
	for _, opt := range opts {
		opt(&o)
	}

	p, err := newProvider(db)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}

	var results []*goose.MigrationResult
	if o.target > 0 {
		results, err = p.UpTo(ctx, o.target)
	} else {
		results, err = p.Up(ctx)
	}
	for _, r := range results {
		if r.Source != nil {
			o.logger.Info(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
		}
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if o.target > 0 {
		return nil
	}

	if err := seedDeveloper(ctx, db, o.developerHash, o.logger); err != nil {
		return fmt.Errorf("seed developer: %w", err)
	}
	if err := syncRolePermissions(ctx, db); err != nil {
		return fmt.Errorf("sync role permissions: %w", err)
	}
	return nil
}

// Version returns the newest applied step, 0 for an empty store.
func Version(ctx context.Context, db *sql.DB) (int64, error) {
	p, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("db version: %w", err)
	}
	return v, nil
}

// Latest is the highest version known to this build.
func Latest(db *sql.DB) (int64, error) {
	p, err := newProvider(db)
	if err != nil {
		return 0, err
	}
	srcs := p.ListSources()
	if len(srcs) == 0 {
		return 0, errors.New("no migrations")
	}
	return srcs[len(srcs)-1].Version, nil
}

// SeedIdentity re-creates the built-in roles, the admin account and, when
// developerHash is set, the developer account, then tops up role grants.
// It runs inside the caller's transaction.
func SeedIdentity(ctx context.Context, tx dbx.DBTX, developerHash string, l logging.Logger) error {
	if err := seedAdmin(ctx, tx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if developerHash != "" {
		if err := seedDeveloperTx(ctx, tx, developerHash, l); err != nil {
			return fmt.Errorf("seed developer: %w", err)
		}
	}
	return syncRolePermissionsTx(ctx, tx)
}

// syncRolePermissions inserts every grant of the code's target sets that a
// built-in role lacks. Extra grants are left alone.
func syncRolePermissions(ctx context.Context, db *sql.DB) error {
	return dbx.WithTx(ctx, db, nil, syncRolePermissionsTx)
}

func syncRolePermissionsTx(ctx context.Context, tx dbx.DBTX) error {
	targets := permissions.Targets()
	roles := make([]string, 0, len(targets))
	for r := range targets {
		roles = append(roles, r)
	}
	sort.Strings(roles)

	for _, role := range roles {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles WHERE id = ?`, role).Scan(&n); err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		for _, p := range targets[role] {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO role_permissions (role_id, permission) VALUES (?, ?)`, role, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func seedDeveloper(ctx context.Context, db *sql.DB, hash string, l logging.Logger) error {
	if hash == "" {
		return nil
	}
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return seedDeveloperTx(ctx, tx, hash, l)
	})
}

func seedDeveloperTx(ctx context.Context, tx dbx.DBTX, hash string, l logging.Logger) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO roles (id, name) VALUES (?, 'developer')`, permissions.RoleDeveloper); err != nil {
		return err
	}

	var owner string
	err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE LOWER(username) = 'developer'`).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case owner != permissions.DeveloperUserID:
		l.Warn(ctx, "developer account skipped: username taken", "user_id", owner)
		return nil
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, display_name, role_id, created_at, hidden)
		 VALUES (?, 'developer', ?, 'Developer', ?, ?, 1)
		 ON CONFLICT(id) DO UPDATE SET password_hash = excluded.password_hash, role_id = excluded.role_id, hidden = 1`,
		permissions.DeveloperUserID, hash, permissions.RoleDeveloper, timex.Format(timex.SystemClock()))
	return err
}
