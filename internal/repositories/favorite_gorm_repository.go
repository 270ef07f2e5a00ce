package repositories

import (
	"context"
	"errors"

	"storefront/internal/apperrors"
	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMFavoriteRepository is a GORM implementation of FavoriteRepository.
type GORMFavoriteRepository struct {
	db *gorm.DB
}

// NewGORMFavoriteRepository creates a new instance of GORMFavoriteRepository.
func NewGORMFavoriteRepository(db *gorm.DB) *GORMFavoriteRepository {
	return &GORMFavoriteRepository{db: db}
}

func (r *GORMFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]models.Favorite, error) {
	favorites := make([]models.Favorite, 0)
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&favorites).Error; err != nil {
		return nil, translate(err, "list favorites")
	}
	return favorites, nil
}

// Create relies on the (user_id, product_id) unique index, so concurrent
// attempts for one pair produce exactly one row.
func (r *GORMFavoriteRepository) Create(ctx context.Context, favorite *models.Favorite) error {
	if favorite.ID == "" {
		favorite.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Omit("User", "Product").Create(favorite).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Wrap(apperrors.Conflict, err, "product is already a favorite")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Wrap(apperrors.NotFound, err, "user or product not found")
	}
	return translate(err, "create favorite")
}

func (r *GORMFavoriteRepository) Delete(ctx context.Context, userID, id string) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&favorite, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.NotFound, "favorite with ID %s not found", id)
			}
			return err
		}
		return tx.Delete(&models.Favorite{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "delete favorite")
	}
	return &favorite, nil
}
