package services

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"
	"storefront/pkg/cache"
	"storefront/pkg/metrics"

	"github.com/rs/zerolog"
)

const productListKey = "products:all"

func productKey(id string) string {
	return "products:" + id
}

// CachedProductService wraps a ProductCatalog with a read-through cache.
// Writes go to the wrapped catalog first and then invalidate the affected
// keys. Cache failures are logged and fall back to the wrapped catalog.
type CachedProductService struct {
	next  ProductCatalog
	cache cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

// NewCachedProductService creates a new CachedProductService.
func NewCachedProductService(next ProductCatalog, c cache.Cache, ttl time.Duration, log zerolog.Logger) *CachedProductService {
	return &CachedProductService{next: next, cache: c, ttl: ttl, log: log}
}

func (s *CachedProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.lookup(ctx, productListKey, &products) {
		return products, nil
	}

	products, err := s.next.GetAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, productListKey, products)
	return products, nil
}

func (s *CachedProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if s.lookup(ctx, productKey(id), &product) {
		return &product, nil
	}

	found, err := s.next.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, productKey(id), found)
	return found, nil
}

func (s *CachedProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.next.CreateProduct(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx, productListKey)
	return nil
}

func (s *CachedProductService) UpdateProduct(ctx context.Context, id string, p models.ProductPatch) (*models.Product, error) {
	product, err := s.next.UpdateProduct(ctx, id, p)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, productListKey, productKey(id))
	return product, nil
}

func (s *CachedProductService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.next.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, productListKey, productKey(id))
	return product, nil
}

func (s *CachedProductService) lookup(ctx context.Context, key string, dest interface{}) bool {
	err := s.cache.Get(ctx, key, dest)
	switch {
	case err == nil:
		metrics.CacheHits.Inc()
		return true
	case errors.Is(err, cache.ErrCacheMiss):
		metrics.CacheMisses.Inc()
	default:
		metrics.CacheMisses.Inc()
		s.log.Warn().Err(err).Str("key", key).Msg("product cache read failed")
	}
	return false
}

func (s *CachedProductService) store(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("product cache write failed")
	}
}

func (s *CachedProductService) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn().Err(err).Strs("keys", keys).Msg("product cache invalidation failed")
	}
}
