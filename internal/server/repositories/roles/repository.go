package roles

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Role, error)
	GetByID(ctx context.Context, id string) (*models.Role, error)
	Permissions(ctx context.Context, roleID string) ([]string, error)
	ReplacePermissions(ctx context.Context, roleID string, perms []string) error
}
