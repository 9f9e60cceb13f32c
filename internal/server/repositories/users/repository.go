package users

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	Update(ctx context.Context, id, displayName, roleID string) error
	SetPassword(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}
