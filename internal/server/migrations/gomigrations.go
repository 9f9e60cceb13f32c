package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/parkdesk/internal/cryptox"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
	"github.com/pressly/goose/v3"
)

// goMigrations are the steps that need code: backfills, seeds and the two
// table rebuilds that must run with foreign keys disabled.
func goMigrations() []*goose.Migration {
	return []*goose.Migration{
		goose.NewGoMigration(2, &goose.GoFunc{RunDB: rebuildVehiclesDropTicketUnique, Mode: goose.TransactionDisabled}, nil),
		goose.NewGoMigration(5, &goose.GoFunc{RunTx: createIdentityTables, Mode: goose.TransactionEnabled}, nil),
		goose.NewGoMigration(7, &goose.GoFunc{RunTx: addPlateUpper, Mode: goose.TransactionEnabled}, nil),
		goose.NewGoMigration(9, &goose.GoFunc{RunTx: seedDefaultTariffs, Mode: goose.TransactionEnabled}, nil),
		goose.NewGoMigration(10, &goose.GoFunc{RunTx: addTariffUnits, Mode: goose.TransactionEnabled}, nil),
		goose.NewGoMigration(13, &goose.GoFunc{RunDB: rebuildBarcodesRelaxCheck, Mode: goose.TransactionDisabled}, nil),
	}
}

func execAll(ctx context.Context, tx dbx.DBTX, stmts ...string) error {
	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %.40q: %w", s, err)
		}
	}
	return nil
}

func rebuildVehiclesDropTicketUnique(ctx context.Context, db *sql.DB) error {
	return dbx.WithoutForeignKeys(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		return execAll(ctx, tx,
			`CREATE TABLE vehicles_new (
				id           TEXT PRIMARY KEY,
				ticket_code  TEXT NOT NULL,
				plate        TEXT NOT NULL DEFAULT '',
				vehicle_type TEXT NOT NULL,
				observations TEXT,
				entry_time   TEXT NOT NULL,
				exit_time    TEXT,
				status       TEXT NOT NULL DEFAULT 'active',
				total_amount REAL,
				debt         REAL
			)`,
			`INSERT INTO vehicles_new (id, ticket_code, plate, vehicle_type, observations, entry_time, exit_time, status, total_amount, debt)
				SELECT id, ticket_code, plate, vehicle_type, observations, entry_time, exit_time, status, total_amount, debt FROM vehicles`,
			`DROP TABLE vehicles`,
			`ALTER TABLE vehicles_new RENAME TO vehicles`,
			`CREATE INDEX IF NOT EXISTS idx_vehicles_plate ON vehicles(plate)`,
			`CREATE INDEX IF NOT EXISTS idx_vehicles_ticket ON vehicles(ticket_code)`,
		)
	})
}

func createIdentityTables(ctx context.Context, tx *sql.Tx) error {
	if err := execAll(ctx, tx,
		`CREATE TABLE IF NOT EXISTS roles (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS role_permissions (
			role_id    TEXT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
			permission TEXT NOT NULL,
			PRIMARY KEY (role_id, permission)
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_name  TEXT NOT NULL,
			role_id       TEXT NOT NULL REFERENCES roles(id),
			created_at    TEXT NOT NULL
		)`,
	); err != nil {
		return err
	}
	return seedAdmin(ctx, tx)
}

// seedAdmin inserts the built-in roles and the admin/admin account when
// they are missing.
func seedAdmin(ctx context.Context, tx dbx.DBTX) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO roles (id, name) VALUES ('role_admin', 'admin'), ('role_operator', 'operator')`); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword([]byte("admin"))
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (id, username, password_hash, display_name, role_id, created_at)
		 VALUES (?, 'admin', ?, 'Administrator', ?, ?)`,
		permissions.AdminUserID, hash, permissions.RoleAdmin, timex.Format(timex.SystemClock()))
	return err
}

func addPlateUpper(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`ALTER TABLE vehicles ADD COLUMN plate_upper TEXT NOT NULL DEFAULT ''`,
		`UPDATE vehicles SET plate_upper = UPPER(TRIM(plate))`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_plate_upper ON vehicles(plate_upper)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_plate_upper_status ON vehicles(plate_upper, status)`,
	)
}

func seedDefaultTariffs(ctx context.Context, tx *sql.Tx) error {
	now := timex.Format(timex.SystemClock())
	for _, vt := range models.VehicleTypes {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO custom_tariffs (id, vehicle_type, plate_or_ref, description, amount, created_at)
			 VALUES (?, ?, '', ?, ?, ?)`,
			models.DefaultTariffID(vt), string(vt), "Default "+string(vt)+" rate", models.FallbackRate(vt), now); err != nil {
			return fmt.Errorf("seed %s tariff: %w", vt, err)
		}
	}
	return nil
}

func addTariffUnits(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`ALTER TABLE custom_tariffs ADD COLUMN name TEXT`,
		`ALTER TABLE custom_tariffs ADD COLUMN rate_unit TEXT NOT NULL DEFAULT 'hour'`,
		`ALTER TABLE custom_tariffs ADD COLUMN rate_duration_hours INTEGER NOT NULL DEFAULT 1`,
		`ALTER TABLE custom_tariffs ADD COLUMN rate_duration_minutes INTEGER NOT NULL DEFAULT 0`,
		`UPDATE custom_tariffs SET name = COALESCE(NULLIF(TRIM(description), ''), vehicle_type) WHERE name IS NULL`,
		`UPDATE custom_tariffs SET rate_unit = 'hour' WHERE rate_unit IS NULL OR rate_unit NOT IN ('hour', 'minute')`,
	)
}

func rebuildBarcodesRelaxCheck(ctx context.Context, db *sql.DB) error {
	return dbx.WithoutForeignKeys(ctx, db, func(ctx context.Context, tx dbx.DBTX) error {
		return execAll(ctx, tx,
			`CREATE TABLE barcodes_new (
				id         TEXT PRIMARY KEY,
				code       TEXT NOT NULL UNIQUE CHECK (length(code) BETWEEN 1 AND 24),
				label      TEXT,
				created_at TEXT NOT NULL
			)`,
			`INSERT INTO barcodes_new (id, code, label, created_at) SELECT id, code, label, created_at FROM barcodes`,
			`DROP TABLE barcodes`,
			`ALTER TABLE barcodes_new RENAME TO barcodes`,
		)
	})
}

