package transactions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

// Window bounds a treasury query. From is exclusive when AfterFrom is set,
// inclusive otherwise; To is always inclusive.
type Window struct {
	From      time.Time
	AfterFrom bool
	To        time.Time
}

type Repository interface {
	Create(ctx context.Context, t *models.Transaction) error
	ByVehicle(ctx context.Context, vehicleID string) ([]models.Transaction, error)
	Recent(ctx context.Context, limit int) ([]models.Transaction, error)
	Count(ctx context.Context) (int, error)
	DeleteByVehicle(ctx context.Context, vehicleID string) (int64, error)
	Summarize(ctx context.Context, w Window) (models.Breakdown, int, error)
}
