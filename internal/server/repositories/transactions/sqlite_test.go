package transactions

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

func TestSummarize_WindowBounds(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	_, err := db.Exec(`INSERT INTO vehicles (id, ticket_code, plate, plate_upper, vehicle_type, entry_time, status)
		VALUES ('VH1', 'T1', 'A', 'A', 'car', '2025-05-10T08:00:00.000000Z', 'completed')`)
	require.NoError(t, err)

	r := NewSQLiteRepository(db)
	add := func(id string, amount string, m models.PaymentMethod, at time.Time) {
		require.NoError(t, r.Create(ctx, &models.Transaction{
			ID: id, VehicleID: "VH1", Amount: decimal.RequireFromString(amount), Method: m, CreatedAt: at,
		}))
	}
	add("TX1", "50", models.Cash, t0)
	add("TX2", "30.25", models.Card, t0.Add(time.Hour))
	add("TX3", "10", models.Transfer, t0.Add(2*time.Hour))
	add("TX4", "5", models.Cash, t0.Add(3*time.Hour))

	b, n, err := r.Summarize(ctx, Window{From: t0, To: t0.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, b.Cash.Equal(decimal.NewFromInt(50)))
	assert.True(t, b.Card.Equal(decimal.RequireFromString("30.25")))
	assert.True(t, b.Total().Equal(decimal.RequireFromString("90.25")))

	b, n, err = r.Summarize(ctx, Window{From: t0, AfterFrom: true, To: t0.Add(4 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, b.Cash.Equal(decimal.NewFromInt(5)))

	txs, err := r.ByVehicle(ctx, "VH1")
	require.NoError(t, err)
	require.Len(t, txs, 4)
	assert.Equal(t, t0, txs[0].CreatedAt)

	recent, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "TX4", recent[0].ID)
	assert.Equal(t, "TX3", recent[1].ID)
	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	deleted, err := r.DeleteByVehicle(ctx, "VH1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}

func TestCreate_ForeignKeyEnforced(t *testing.T) {
	r := NewSQLiteRepository(testdb.New(t))
	err := r.Create(context.Background(), &models.Transaction{
		ID: "TX1", VehicleID: "missing", Amount: decimal.NewFromInt(1), Method: models.Cash, CreatedAt: t0,
	})
	assert.Error(t, err)
}

func TestCreate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`^INSERT INTO transactions \(id, vehicle_id, amount, method, created_at\) VALUES \(\?, \?, \?, \?, \?\)$`).
		WithArgs("TX1", "VH1", "12.5", "card", "2025-05-10T09:00:00.000000Z").
		WillReturnError(errors.New("readonly"))

	err = NewSQLiteRepository(db).Create(context.Background(), &models.Transaction{
		ID: "TX1", VehicleID: "VH1", Amount: decimal.RequireFromString("12.5"), Method: models.Card, CreatedAt: t0,
	})
	if err == nil || !regexp.MustCompile(`db error: .*readonly`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
