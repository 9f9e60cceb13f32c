package barcodes

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Barcode, error)
	GetByID(ctx context.Context, id string) (*models.Barcode, error)
	GetByCode(ctx context.Context, code string) (*models.Barcode, error)
	Create(ctx context.Context, b *models.Barcode) error
	Delete(ctx context.Context, id string) error
}
