package services

import (
	"context"
	"strings"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/patch"
	"storefront/internal/repositories"
	"storefront/internal/validation"

	"github.com/shopspring/decimal"
)

// ProductCatalog is the product use-case surface consumed by handlers.
type ProductCatalog interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id string, p models.ProductPatch) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	events   *EventEmitter
	validate *validation.Validator
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(repo repositories.ProductRepository, events *EventEmitter) *ProductService {
	return &ProductService{
		repo:     repo,
		events:   events,
		validate: validation.New(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	product.Price = product.Price.Round(2)
	if err := checkPrice(product.Price); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.events.Emit(EventProductCreated, map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
		"price":      product.Price,
	})
	return nil
}

// UpdateProduct applies a partial update to a product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, p models.ProductPatch) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.New(apperrors.Validation, "an identifier is required for an update")
	}

	var errs []error
	if v, ok := p.Name.Get(); ok {
		errs = append(errs, s.validate.Var("name", v, "required,min=3,max=100"))
	}
	if v, ok := p.Description.Get(); ok {
		errs = append(errs, s.validate.Var("description", v, "required,max=2000"))
	}
	if v, ok := p.PhotoURL.Get(); ok {
		errs = append(errs, s.validate.Var("photo_url", v, "required,max=1024"))
	}
	if v, ok := p.Price.Get(); ok {
		v = v.Round(2)
		errs = append(errs, checkPrice(v))
		p.Price = patch.Some(v)
	}
	if err := validation.Merge(errs...); err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.events.Emit(EventProductUpdated, map[string]interface{}{"product_id": product.ID})
	return product, nil
}

// DeleteProduct deletes a product by its ID and returns it.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.events.Emit(EventProductDeleted, map[string]interface{}{"product_id": product.ID})
	return product, nil
}

// maxPrice is the first value that no longer fits the numeric(12,2) column.
var maxPrice = decimal.New(1, 10)

func checkPrice(price decimal.Decimal) error {
	var reason string
	switch {
	case price.IsNegative():
		reason = "Field 'price' must not be negative"
	case price.GreaterThanOrEqual(maxPrice):
		reason = "Field 'price' must be less than " + maxPrice.String()
	default:
		return nil
	}
	return apperrors.Invalid("Validation failed", map[string]string{"price": reason})
}
