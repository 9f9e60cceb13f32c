package vehicles

import (
	"context"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/shopspring/decimal"
)

// Repository reads and writes parking sessions. Plates passed in are
// expected to be normalised already.
type Repository interface {
	Create(ctx context.Context, v *models.Vehicle) error
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	ActiveByTicket(ctx context.Context, ticket string) (*models.Vehicle, error)
	ActiveByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	PlateTypes(ctx context.Context, plate string) ([]models.VehicleType, error)
	PlateDebt(ctx context.Context, plate string) (decimal.Decimal, error)
	TotalDebt(ctx context.Context) (decimal.Decimal, error)

	List(ctx context.Context, status models.SessionStatus, limit, offset int) ([]models.Vehicle, error)
	Count(ctx context.Context, status models.SessionStatus) (int, error)
	ByPlate(ctx context.Context, plate string) ([]models.Vehicle, error)
	DebtDetails(ctx context.Context, plate string) ([]models.DebtDetail, error)
	Debtors(ctx context.Context) ([]models.Debtor, error)
	SearchPlates(ctx context.Context, prefix string, limit int) ([]string, error)
	ConflictingPlates(ctx context.Context) ([]string, error)
	CompletedBetween(ctx context.Context, from, to time.Time) ([]models.Vehicle, error)

	Complete(ctx context.Context, id string, exit time.Time, total decimal.Decimal, debt *decimal.Decimal) error
	Remove(ctx context.Context, id string, exit time.Time) error
	ClearPlateDebt(ctx context.Context, plate, exceptID string) error
	Delete(ctx context.Context, id string) error
}
