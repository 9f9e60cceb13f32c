package client

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/backup"
	"github.com/dmitrijs2005/parkdesk/internal/server/config"
	gs "github.com/dmitrijs2005/parkdesk/internal/server/grpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parkdesk/internal/server/services"
	"github.com/dmitrijs2005/parkdesk/internal/server/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// newTestClient serves a real server on an in-memory listener.
func newTestClient(t *testing.T) *GRPCClient {
	t.Helper()
	db := testdb.New(t)
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.LoginBurst = 50
	cfg.LoginAttemptsPerMinute = 600
	svc := services.NewSet(db, repomanager.NewSQLiteRepositoryManager(), cfg,
		backup.NewManager(db, filepath.Join(t.TempDir(), "backups")))

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.NewGRPCServer("bufnet", logging.Nop(), db, svc).Serve(ctx, lis) }()

	c, err := NewParkDeskClient("passthrough:///bufnet", 5*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func TestLoginAndLogout(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CurrentUser(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	done, err := c.FirstRunStatus(ctx)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = c.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.False(t, c.LoggedIn())

	resp, err := c.Login(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.True(t, c.LoggedIn())
	assert.Equal(t, permissions.RoleAdmin, resp.RoleID)

	u, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)

	ping, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	c.Logout()
	_, err = c.CurrentUser(ctx)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestParkingRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	_, err := c.Login(ctx, "admin", "admin")
	require.NoError(t, err)

	v, err := c.RegisterEntry(ctx, &rpc.EntryRequest{Plate: "qwe987", VehicleType: "truck", TicketCode: "TT1"})
	require.NoError(t, err)
	assert.Equal(t, "QWE987", v.Plate)

	_, err = c.RegisterEntry(ctx, &rpc.EntryRequest{Plate: "QWE987", VehicleType: "truck", TicketCode: "TT2"})
	assert.ErrorIs(t, err, common.ErrorConflict)

	found, err := c.FindByTicket(ctx, "TT1")
	require.NoError(t, err)
	assert.Equal(t, v.ID, found.ID)

	partial := decimal.NewFromInt(30)
	out, err := c.ProcessExit(ctx, &rpc.ExitRequest{TicketCode: "TT1", PartialPayment: &partial, PaymentMethod: "cash"})
	require.NoError(t, err)
	require.NotNil(t, out.Debt)
	assert.True(t, out.Debt.Equal(decimal.NewFromInt(50)), "truck hour is 80, 30 paid")

	debt, err := c.PlateDebt(ctx, "qwe987")
	require.NoError(t, err)
	assert.True(t, debt.Equal(decimal.NewFromInt(50)))

	debtors, err := c.ListDebtors(ctx)
	require.NoError(t, err)
	require.Len(t, debtors, 1)
	assert.Equal(t, "QWE987", debtors[0].Plate)

	tr, err := c.GetTreasury(ctx)
	require.NoError(t, err)
	assert.True(t, tr.ExpectedCash.Equal(decimal.NewFromInt(30)))

	_, err = c.FindByTicket(ctx, "NOPE")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := c.ListVehicles(ctx, string(models.StatusCompleted), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}
