package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupConfig(t *testing.T) {
	f := newFixture(t)
	ctx := adminCtx()

	cfg, err := f.backups.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultBackupConfig(), *cfg)

	_, err = f.backups.UpdateConfig(ctx, models.BackupConfig{Enabled: true, Schedule: "whenever", Retention: 3})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.backups.UpdateConfig(ctx, models.BackupConfig{Enabled: true, Schedule: "0 1 * * *", Retention: 0})
	assert.ErrorIs(t, err, common.ErrorValidation)

	saved, err := f.backups.UpdateConfig(ctx, models.BackupConfig{Enabled: true, Schedule: " 30 2 * * * ", Compress: false, Retention: 3})
	require.NoError(t, err)
	assert.Equal(t, "30 2 * * *", saved.Schedule)
	assert.Equal(t, "30 2 * * *", f.backups.scheduler.Current())

	cfg, err = f.backups.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, *saved, *cfg)

	_, err = f.backups.GetConfig(withPerms(permissions.BackupListRead))
	assert.ErrorIs(t, err, common.ErrorPermissionDenied)
	_, err = f.backups.UpdateConfig(withPerms(permissions.BackupConfigRead), *cfg)
	assert.ErrorIs(t, err, common.ErrorPermissionDenied)
}

func TestBackupCreateListRestore(t *testing.T) {
	f := newFixture(t)
	ctx := adminCtx()

	park(t, f, "BK1", "car", "A", "cash", 10*time.Minute)
	compress := true
	e, err := f.backups.Create(ctx, &compress)
	require.NoError(t, err)
	assert.Equal(t, ".gz", filepath.Ext(e.Path))

	list, err := f.backups.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	f.clock.Advance(time.Minute)
	park(t, f, "BK2", "car", "B", "cash", 10*time.Minute)
	amount := d("99")
	_, err = f.tariffs.Update(ctx, models.DefaultTariffID(models.Car), TariffPatch{Amount: &amount})
	require.NoError(t, err)
	r, err := f.tariffs.ResolveDefaultRate(ctx, "car")
	require.NoError(t, err)
	assertDec(t, "99", r)

	assert.ErrorIs(t, f.backups.Restore(operatorCtx(), e.Path), common.ErrorPermissionDenied)
	assert.ErrorIs(t, f.backups.Restore(ctx, " "), common.ErrorValidation)
	require.NoError(t, f.backups.Restore(ctx, e.Path))

	assert.Equal(t, 1, countRows(t, f.db, "vehicles"))
	assert.Equal(t, 1, countRows(t, f.db, "transactions"))
	r, err = f.tariffs.ResolveDefaultRate(ctx, "car")
	require.NoError(t, err)
	assertDec(t, "50", r, "restore drops cached rates")

	_, err = f.backups.Create(withPerms(permissions.BackupListRead), nil)
	assert.ErrorIs(t, err, common.ErrorPermissionDenied)
}

func TestRunScheduled(t *testing.T) {
	f := newFixture(t)
	ctx := adminCtx()

	f.backups.RunScheduled(ctx)
	list, err := f.backups.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "disabled schedule does nothing")

	_, err = f.backups.UpdateConfig(ctx, models.BackupConfig{Enabled: true, Schedule: "@daily", Compress: true, Retention: 2})
	require.NoError(t, err)
	for range 3 {
		f.backups.RunScheduled(ctx)
		f.clock.Advance(time.Second)
	}
	list, err = f.backups.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2, "retention applies")
}
