// Package repomanager provides the concrete RepositoryManager for the
// embedded SQLite store, wiring repository constructors and the schema
// migrator.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/barcodes"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/closures"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/reports"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/roles"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/settings"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/tariffs"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/users"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/vehicles"
)

// SQLiteRepositoryManager vends SQLite-backed repositories bound to
// whatever DBTX the caller holds: the pool, a pinned connection or a tx.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Vehicles(db dbx.DBTX) vehicles.Repository {
	return vehicles.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Closures(db dbx.DBTX) closures.Repository {
	return closures.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Tariffs(db dbx.DBTX) tariffs.Repository {
	return tariffs.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Roles(db dbx.DBTX) roles.Repository {
	return roles.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Barcodes(db dbx.DBTX) barcodes.Repository {
	return barcodes.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Settings(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Reports(db dbx.DBTX) reports.Repository {
	return reports.NewSQLiteRepository(db)
}

// migrate is a seam for tests.
var migrate = migrations.Migrate

// RunMigrations brings the store to the latest schema.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB, opts ...migrations.Option) error {
	return migrate(ctx, db, opts...)
}
