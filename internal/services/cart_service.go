package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartView is a cart with its items.
type CartView struct {
	Cart  *models.Cart      `json:"cart"`
	Items []models.CartItem `json:"items"`
}

// CartService exposes read access to a user's cart.
type CartService struct {
	repo repositories.CartRepository
}

// NewCartService creates a new CartService.
func NewCartService(repo repositories.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Items(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: cart, Items: items}, nil
}
