package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Shashwat-pati/Ecommerce-Backend/internal/domain"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/event"
	"github.com/Shashwat-pati/Ecommerce-Backend/internal/repository"
)

// Fixed listing sizes, matching the storefront pages that consume them.
const (
	searchPageSize   = 6
	catalogListLimit = 12
	topListLimit     = 4
	newListLimit     = 5
)

// Cache keys and TTL for the hot public listings.
const (
	cacheKeyTop     = "products:top"
	cacheKeyNew     = "products:new"
	listingCacheTTL = time.Minute
)

// ProductService implements the business logic for catalog operations.
type ProductService struct {
	repo     repository.ProductRepository
	cache    *redis.Client
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service. The cache client may be
// nil, which disables listing caching.
func NewProductService(repo repository.ProductRepository, cache *redis.Client, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name         string
	Brand        string
	Description  string
	Price        float64
	CategoryID   string
	Quantity     int
	CountInStock int
}

// UpdateProductInput holds the parameters for a sparse product update. Only
// non-nil fields are applied.
type UpdateProductInput struct {
	Name         *string
	Brand        *string
	Description  *string
	Price        *float64
	CategoryID   *string
	Quantity     *int
	CountInStock *int
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Brand:        input.Brand,
		Description:  input.Description,
		Price:        input.Price,
		CategoryID:   input.CategoryID,
		Quantity:     input.Quantity,
		CountInStock: input.CountInStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.invalidateListings(ctx)

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// UpdateProduct applies a sparse update to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.CountInStock != nil {
		product.CountInStock = *input.CountInStock
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateListings(ctx)

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// DeleteProduct removes a product and returns its last state.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	s.invalidateListings(ctx)

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted", slog.String("product_id", id))

	return product, nil
}

// SearchProducts returns one page of keyword matches with real pagination
// metadata.
func (s *ProductService) SearchProducts(ctx context.Context, keyword string, page int) (*domain.ProductPage, error) {
	if page < 1 {
		page = 1
	}

	products, total, err := s.repo.Search(ctx, keyword, page, searchPageSize)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	pages := (total + searchPageSize - 1) / searchPageSize

	return &domain.ProductPage{
		Products: products,
		Page:     page,
		Pages:    pages,
		HasMore:  page < pages,
	}, nil
}

// ListProducts returns the newest catalog entries with category names.
func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.ListWithCategory(ctx, catalogListLimit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// TopProducts returns the highest-rated products, cache-aside when a cache
// client is configured.
func (s *ProductService) TopProducts(ctx context.Context) ([]*domain.Product, error) {
	if cached, ok := s.cachedListing(ctx, cacheKeyTop); ok {
		return cached, nil
	}

	products, err := s.repo.ListTop(ctx, topListLimit)
	if err != nil {
		return nil, fmt.Errorf("list top products: %w", err)
	}

	s.storeListing(ctx, cacheKeyTop, products)
	return products, nil
}

// NewProducts returns the newest products, cache-aside when a cache client
// is configured.
func (s *ProductService) NewProducts(ctx context.Context) ([]*domain.Product, error) {
	if cached, ok := s.cachedListing(ctx, cacheKeyNew); ok {
		return cached, nil
	}

	products, err := s.repo.ListNew(ctx, newListLimit)
	if err != nil {
		return nil, fmt.Errorf("list new products: %w", err)
	}

	s.storeListing(ctx, cacheKeyNew, products)
	return products, nil
}

// FilterProducts returns products constrained by categories and price range.
func (s *ProductService) FilterProducts(ctx context.Context, categoryIDs []string, minPrice, maxPrice *float64) ([]*domain.Product, error) {
	filter := repository.ProductFilter{
		CategoryIDs: categoryIDs,
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
	}

	products, err := s.repo.ListFiltered(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("filter products: %w", err)
	}
	return products, nil
}

func (s *ProductService) cachedListing(ctx context.Context, key string) ([]*domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.WarnContext(ctx, "listing cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}

	var products []*domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false
	}
	return products, true
}

func (s *ProductService) storeListing(ctx context.Context, key string, products []*domain.Product) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, data, listingCacheTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "listing cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// invalidateListings drops the cached public listings after any catalog
// mutation.
func (s *ProductService) invalidateListings(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, cacheKeyTop, cacheKeyNew).Err(); err != nil {
		s.logger.WarnContext(ctx, "listing cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}
