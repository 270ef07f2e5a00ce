package repositories

import (
	"context"
	"errors"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/patch"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&products).Error; err != nil {
		return nil, translate(err, "get all products")
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.NotFound, "product with ID %s not found", id)
		}
		return nil, translate(err, "get product")
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return translate(err, "create product")
	}
	return nil
}

// Update applies a partial update and returns the stored row.
func (r *GORMProductRepository) Update(ctx context.Context, id string, p models.ProductPatch) (*models.Product, error) {
	b := patch.Update("products")
	patch.SetOptional(b, "name", p.Name)
	patch.SetOptional(b, "description", p.Description)
	patch.SetOptional(b, "price", p.Price)
	patch.SetOptional(b, "photo_url", p.PhotoURL)
	stmt, err := b.Where("id", id).Build()
	if err != nil {
		return nil, err
	}

	var product models.Product
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(stmt.SQL, stmt.Args...)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.NotFound, "product with ID %s not found", id)
		}
		return tx.First(&product, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "update product")
	}
	return &product, nil
}

// Delete deletes a product by its ID and returns the deleted row.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.NotFound, "product with ID %s not found", id)
			}
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err, "delete product")
	}
	return &product, nil
}
