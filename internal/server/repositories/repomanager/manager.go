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

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB, opts ...migrations.Option) error
	Vehicles(db dbx.DBTX) vehicles.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Closures(db dbx.DBTX) closures.Repository
	Tariffs(db dbx.DBTX) tariffs.Repository
	Users(db dbx.DBTX) users.Repository
	Roles(db dbx.DBTX) roles.Repository
	Barcodes(db dbx.DBTX) barcodes.Repository
	Settings(db dbx.DBTX) settings.Repository
	Reports(db dbx.DBTX) reports.Repository
}
