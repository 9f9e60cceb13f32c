package closures

import (
	"context"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

// Repository is append-only: closures are never updated or deleted.
type Repository interface {
	Create(ctx context.Context, c *models.ShiftClosure) error
	LatestBetween(ctx context.Context, from, to time.Time) (*models.ShiftClosure, error)
	List(ctx context.Context, limit int) ([]models.ShiftClosure, error)
}
