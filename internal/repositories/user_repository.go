package repositories

import (
	"context"

	"storefront/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// List never loads the password column.
	List(ctx context.Context) ([]models.User, error)
	// Update applies a partial update. Password, if present, must already be hashed.
	Update(ctx context.Context, id string, p models.UserPatch) (*models.User, error)
	// Delete removes the user and returns the deleted row. Favorites and the
	// cart are removed by the store's cascading foreign keys.
	Delete(ctx context.Context, id string) (*models.User, error)
}
