package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/server/auth"
	"github.com/dmitrijs2005/parkdesk/internal/server/backup"
	"github.com/dmitrijs2005/parkdesk/internal/server/config"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parkdesk/internal/server/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	db       *sql.DB
	clock    *fakeClock
	cfg      *config.Config
	tariffs  *TariffService
	vehicles *VehicleService
	treasury *TreasuryService
	identity *IdentityService
	reports  *ReportService
	barcodes *BarcodeService
	backups  *BackupService
	dev      *DevService
}

func newFixture(t *testing.T, opts ...migrations.Option) *fixture {
	t.Helper()
	db := testdb.New(t, opts...)
	m := repomanager.NewSQLiteRepositoryManager()
	clock := &fakeClock{t: t0}
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.LoginAttemptsPerMinute = 600
	cfg.LoginBurst = 100

	so := []Option{WithClock(clock.Now)}
	f := &fixture{db: db, clock: clock, cfg: cfg}
	f.tariffs = NewTariffService(db, m, cfg, so...)
	f.vehicles = NewVehicleService(db, m, f.tariffs, so...)
	f.treasury = NewTreasuryService(db, m, cfg, so...)
	f.identity = NewIdentityService(db, m, cfg, so...)
	f.reports = NewReportService(db, m, so...)
	f.barcodes = NewBarcodeService(db, m, so...)
	f.backups = NewBackupService(db, m,
		backup.NewManager(db, filepath.Join(t.TempDir(), "backups"), backup.WithClock(clock.Now)), so...)
	f.backups.OnRestore(f.tariffs.InvalidateCache)
	f.dev = NewDevService(db, m, f.identity, cfg.DatabasePath, so...)
	return f
}

func withPerms(perms ...string) context.Context {
	return auth.WithSession(context.Background(), auth.NewSession("user_test", "tester", "role_test", perms))
}

func adminCtx() context.Context {
	return auth.WithSession(context.Background(),
		auth.NewSession(permissions.AdminUserID, "admin", permissions.RoleAdmin, permissions.Admin()))
}

func developerCtx() context.Context {
	return auth.WithSession(context.Background(),
		auth.NewSession(permissions.DeveloperUserID, "developer", permissions.RoleDeveloper, permissions.Developer()))
}

func operatorCtx() context.Context {
	return auth.WithSession(context.Background(),
		auth.NewSession("user_operator", "operator", permissions.RoleOperator, permissions.Operator()))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(d(want)), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// zeroOrNil treats a NULL debt as no debt.
func zeroOrNil(v *decimal.Decimal) bool {
	return v == nil || v.IsZero()
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}
