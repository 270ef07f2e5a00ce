package services

import (
	"context"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// FavoriteService handles business logic related to favorites.
type FavoriteService struct {
	favorites repositories.FavoriteRepository
	products  repositories.ProductRepository
	events    *EventEmitter
}

// NewFavoriteService creates a new FavoriteService. events may be nil.
func NewFavoriteService(favorites repositories.FavoriteRepository, products repositories.ProductRepository, events *EventEmitter) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		products:  products,
		events:    events,
	}
}

// ListFavorites returns the user's favorites.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// AddFavorite marks productID as a favorite of userID. A second attempt for the
// same pair fails with Conflict.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, productID string) (*models.Favorite, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, apperrors.Invalid("Validation failed", map[string]string{
			"product_id": "Field 'product_id' failed on the 'required' tag",
		})
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	favorite := &models.Favorite{UserID: userID, ProductID: productID}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		return nil, err
	}

	s.events.Emit(EventFavoriteCreated, map[string]interface{}{
		"favorite_id": favorite.ID,
		"user_id":     userID,
		"product_id":  productID,
	})
	return favorite, nil
}

// RemoveFavorite deletes one of the user's favorites and returns it.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, favoriteID string) (*models.Favorite, error) {
	favorite, err := s.favorites.Delete(ctx, userID, favoriteID)
	if err != nil {
		return nil, err
	}
	s.events.Emit(EventFavoriteDeleted, map[string]interface{}{
		"favorite_id": favorite.ID,
		"user_id":     userID,
	})
	return favorite, nil
}
