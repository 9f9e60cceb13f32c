package reports

import (
	"context"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

// Query selects columns of one report type. From is inclusive and To
// exclusive; empty Method or VehicleType means no filter.
type Query struct {
	Type        models.ReportType
	Columns     []models.ReportColumn
	From, To    time.Time
	Method      models.PaymentMethod
	VehicleType models.VehicleType
}

type Repository interface {
	Fetch(ctx context.Context, q Query) ([]map[string]any, error)
}
