package repositories

import (
	"context"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	db := r.db.WithContext(ctx)
	cart := models.Cart{ID: uuid.New().String(), UserID: userID}
	// A concurrent first read may insert too; the unique user_id keeps one row.
	if err := db.Omit("User").Clauses(clause.OnConflict{DoNothing: true}).Create(&cart).Error; err != nil {
		return nil, translate(err, "create cart")
	}
	var stored models.Cart
	if err := db.First(&stored, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err, "get cart")
	}
	return &stored, nil
}

func (r *GORMCartRepository) Items(ctx context.Context, cartID string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return nil, translate(err, "list cart items")
	}
	return items, nil
}
