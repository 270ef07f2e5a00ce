package repositories

import (
	"context"

	"storefront/internal/models"
)

// FavoriteRepository defines the interface for favorite data access.
// Favorites are never updated; callers delete and recreate them.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Favorite, error)
	// Create fails with Conflict when the user already favorited the product.
	Create(ctx context.Context, favorite *models.Favorite) error
	// Delete removes the favorite only if it belongs to userID.
	Delete(ctx context.Context, userID, id string) (*models.Favorite, error)
}
