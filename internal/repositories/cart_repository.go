package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository reads the cart tables. Cart mutation is not exposed.
type CartRepository interface {
	// GetOrCreate returns the user's cart, creating an empty one on first use.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	Items(ctx context.Context, cartID string) ([]models.CartItem, error)
}
