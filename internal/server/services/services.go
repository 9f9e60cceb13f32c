// Package services contains the server-side business logic of ParkDesk.
// Every exported operation takes the caller's auth.Session from the context
// and checks a permission before touching the store.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/dmitrijs2005/parkdesk/internal/server/auth"
	"github.com/dmitrijs2005/parkdesk/internal/server/backup"
	"github.com/dmitrijs2005/parkdesk/internal/server/config"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
)

// Option customises a service at construction.
type Option func(*base)

// WithClock replaces the wall clock. Tests use it to pin "now".
func WithClock(c timex.Clock) Option {
	return func(b *base) { b.now = c }
}

func WithLogger(l logging.Logger) Option {
	return func(b *base) { b.logger = l }
}

// base is embedded by every service.
type base struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         timex.Clock
	logger      logging.Logger
}

func newBase(db *sql.DB, m repomanager.RepositoryManager, module string, opts []Option) base {
	b := base{db: db, repomanager: m, now: timex.SystemClock, logger: logging.Nop()}
	for _, o := range opts {
		o(&b)
	}
	b.logger = b.logger.With("module", module)
	return b
}

// inTx runs fn in a write transaction. The store DSN makes every BEGIN
// take the writer lock, so the body is serialised against other writers.
func (b *base) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, b.db, nil, fn)
}

// authorize returns the caller's session if it holds perm.
func authorize(ctx context.Context, perm string) (*auth.Session, error) {
	s := auth.FromContext(ctx)
	if err := s.Require(perm); err != nil {
		return nil, err
	}
	return s, nil
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrorValidation}, args...)...)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrorConflict}, args...)...)
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{common.ErrorNotFound}, args...)...)
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// Set is every service of one store, as the transports consume them.
type Set struct {
	Identity *IdentityService
	Vehicles *VehicleService
	Tariffs  *TariffService
	Treasury *TreasuryService
	Reports  *ReportService
	Barcodes *BarcodeService
	Backups  *BackupService
	Dev      *DevService
}

// NewSet builds all services over db. A restore through Backups drops the
// cached tariff rates.
func NewSet(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, backups *backup.Manager, opts ...Option) *Set {
	s := &Set{}
	s.Tariffs = NewTariffService(db, m, cfg, opts...)
	s.Vehicles = NewVehicleService(db, m, s.Tariffs, opts...)
	s.Treasury = NewTreasuryService(db, m, cfg, opts...)
	s.Identity = NewIdentityService(db, m, cfg, opts...)
	s.Reports = NewReportService(db, m, opts...)
	s.Barcodes = NewBarcodeService(db, m, opts...)
	s.Backups = NewBackupService(db, m, backups, opts...)
	s.Dev = NewDevService(db, m, s.Identity, cfg.DatabasePath, opts...)
	s.Backups.OnRestore(s.Tariffs.InvalidateCache)
	return s
}
