package reports

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func fixture(t *testing.T) *sql.DB {
	t.Helper()
	db := testdb.New(t)
	stmts := []string{
		`INSERT INTO vehicles (id, ticket_code, plate, plate_upper, vehicle_type, entry_time, exit_time, status, total_amount, debt)
		 VALUES ('VH1', 'T1', 'ABC', 'ABC', 'car', '2025-06-01T08:00:00.000000Z', '2025-06-01T10:00:00.000000Z', 'completed', 100, 20)`,
		`INSERT INTO vehicles (id, ticket_code, plate, plate_upper, vehicle_type, entry_time, exit_time, status)
		 VALUES ('VH2', 'T2', 'MOTO1', 'MOTO1', 'motorcycle', '2025-06-01T09:00:00.000000Z', '2025-06-01T09:05:00.000000Z', 'removed')`,
		`INSERT INTO vehicles (id, ticket_code, plate, plate_upper, vehicle_type, entry_time, exit_time, status, total_amount)
		 VALUES ('VH3', 'T3', 'TRK', 'TRK', 'truck', '2025-06-02T09:00:00.000000Z', '2025-06-02T23:59:59.999999Z', 'completed', 80)`,
		`INSERT INTO transactions (id, vehicle_id, amount, method, created_at) VALUES
		 ('TX1', 'VH1', 100, 'cash', '2025-06-01T10:00:00.000000Z'),
		 ('TX3', 'VH3', 80, 'card', '2025-06-02T23:59:59.999999Z')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	return db
}

func all(t *testing.T, rt models.ReportType) []models.ReportColumn {
	t.Helper()
	cols, err := Columns(rt)
	require.NoError(t, err)
	return cols
}

func TestFetch_Transactions(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(fixture(t))

	rows, err := r.Fetch(ctx, Query{
		Type: models.ReportTransactions, Columns: all(t, models.ReportTransactions),
		From: day, To: day.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "TX1", rows[0]["id"])
	assert.EqualValues(t, 100, rows[0]["amount"])

	rows, err = r.Fetch(ctx, Query{
		Type: models.ReportTransactions, Columns: all(t, models.ReportTransactions),
		From: day, To: day.AddDate(0, 0, 2), Method: models.Card,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TX3", rows[0]["id"])

	rows, err = r.Fetch(ctx, Query{
		Type: models.ReportTransactions, Columns: all(t, models.ReportTransactions),
		From: day, To: day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFetch_ExitsAndJoin(t *testing.T) {
	ctx := context.Background()
	r := NewSQLiteRepository(fixture(t))

	rows, err := r.Fetch(ctx, Query{
		Type: models.ReportVehicleExits, Columns: []models.ReportColumn{{Key: "id"}, {Key: "status"}, {Key: "total_amount"}},
		From: day, To: day.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "removed", rows[0]["status"])
	assert.Nil(t, rows[0]["total_amount"])
	assert.Len(t, rows[0], 3)

	rows, err = r.Fetch(ctx, Query{
		Type: models.ReportCompletedVehicles, Columns: all(t, models.ReportCompletedVehicles),
		From: day, To: day.AddDate(0, 0, 2), VehicleType: models.Truck,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "VH3", rows[0]["id"])

	rows, err = r.Fetch(ctx, Query{
		Type: models.ReportTransactionsWithVehicle, Columns: all(t, models.ReportTransactionsWithVehicle),
		From: day, To: day.AddDate(0, 0, 2), VehicleType: models.Car,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TX1", rows[0]["transaction_id"])
	assert.Equal(t, "ABC", rows[0]["plate"])
}

func TestFetch_DebtorsIgnoresDates(t *testing.T) {
	r := NewSQLiteRepository(fixture(t))
	rows, err := r.Fetch(context.Background(), Query{
		Type: models.ReportDebtors, Columns: all(t, models.ReportDebtors),
		From: day.AddDate(1, 0, 0), To: day.AddDate(1, 0, 1),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ABC", rows[0]["plate"])
	assert.EqualValues(t, 20, rows[0]["total_debt"])
	assert.EqualValues(t, 1, rows[0]["sessions_with_debt"])
}

func TestFetch_Rejects(t *testing.T) {
	r := NewSQLiteRepository(fixture(t))
	_, err := r.Fetch(context.Background(), Query{Type: "bogus"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = r.Fetch(context.Background(), Query{
		Type: models.ReportShiftClosures, Columns: []models.ReportColumn{{Key: "id; DROP TABLE x"}},
	})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = Columns("bogus")
	assert.ErrorIs(t, err, common.ErrorValidation)
}
