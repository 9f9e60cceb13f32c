package tariffs

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

type Repository interface {
	DefaultFor(ctx context.Context, vt models.VehicleType) (*models.Tariff, error)
	ForPlate(ctx context.Context, vt models.VehicleType, plate string) (*models.Tariff, error)
	GetByID(ctx context.Context, id string) (*models.Tariff, error)
	List(ctx context.Context, search string, limit int) ([]models.Tariff, error)
	Exists(ctx context.Context, vt models.VehicleType, plate, excludeID string) (bool, error)
	Create(ctx context.Context, t *models.Tariff) error
	Update(ctx context.Context, t *models.Tariff) error
	Delete(ctx context.Context, id string) error
}
