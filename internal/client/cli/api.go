package cli

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/shopspring/decimal"
)

// api is the part of client.GRPCClient the console drives.
type api interface {
	Close() error
	LoggedIn() bool
	Logout()
	Login(ctx context.Context, username, password string) (*rpc.LoginResponse, error)
	Ping(ctx context.Context) (*rpc.PingResponse, error)
	FirstRunStatus(ctx context.Context) (bool, error)
	CompleteFirstRun(ctx context.Context) error
	ChangeAdminPassword(ctx context.Context, current, next string) error
	ResetPasswordWithDeveloper(ctx context.Context, devPassword, target, next string) error
	CurrentUser(ctx context.Context) (*models.User, error)
	MyPermissions(ctx context.Context) ([]string, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (*models.User, error)
	SetPassword(ctx context.Context, id, password string) error

	RegisterEntry(ctx context.Context, req *rpc.EntryRequest) (*models.Vehicle, error)
	ProcessExit(ctx context.Context, req *rpc.ExitRequest) (*models.Vehicle, error)
	RemoveFromParking(ctx context.Context, id, ticketCode string) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, status string, limit, offset int) (*models.VehicleList, error)
	FindByTicket(ctx context.Context, ticketCode string) (*models.Vehicle, error)
	ListDebtors(ctx context.Context) ([]models.Debtor, error)
	PlateDebt(ctx context.Context, plate string) (decimal.Decimal, error)
	DebtDetailByPlate(ctx context.Context, plate string) ([]models.DebtDetail, error)
	TotalDebt(ctx context.Context) (decimal.Decimal, error)

	ResolveDefaultRate(ctx context.Context, vehicleType string) (decimal.Decimal, error)
	ListTariffs(ctx context.Context, search string) ([]models.Tariff, error)
	GetTreasury(ctx context.Context) (*models.Treasury, error)
	CloseShift(ctx context.Context, countedCash *decimal.Decimal, notes string) (*models.ShiftClosure, error)
	ListShiftClosures(ctx context.Context, limit int) ([]models.ShiftClosure, error)
	DailyMetrics(ctx context.Context) (*models.DailyMetrics, error)
	FetchReport(ctx context.Context, req *rpc.FetchReportRequest) (*models.ReportData, error)

	ListBackups(ctx context.Context) ([]models.BackupEntry, error)
	CreateBackup(ctx context.Context, compress *bool) (*models.BackupEntry, error)
	RestoreBackup(ctx context.Context, path string) error
	BarcodeImage(ctx context.Context, code string) ([]byte, error)

	DevSnapshot(ctx context.Context) (*models.DBSnapshot, error)
	DevDatabasePath(ctx context.Context) (string, error)
	DevClearDatabase(ctx context.Context) error
	DevResetUserPassword(ctx context.Context, userID, password string) error
	DevListCommands(ctx context.Context) ([]string, error)
}
