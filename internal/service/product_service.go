package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fg-storefront/internal/model"
	"fg-storefront/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	now         func() time.Time
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		now:         time.Now,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int, category string) ([]model.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	category = strings.TrimSpace(category)

	products, err := s.productRepo.GetAll(ctx, limit, offset, category)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Str("category", category).
			Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.ErrMissingField
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product := req.ToProduct(s.now().UTC())
	if err := s.productRepo.Create(ctx, &product); err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product created")
	return &product, nil
}

// Update replaces the product with the given id. The id in the path wins over
// any id in the body.
func (s *productService) Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, model.ErrMissingField
	}
	req.ID = id
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product := req.ToProduct(s.now().UTC())
	ok, err := s.productRepo.Update(ctx, &product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !ok {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", product.ID).Msg("product updated")
	return &product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id string) error {
	ok, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !ok {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
