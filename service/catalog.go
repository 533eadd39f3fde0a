package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecofinds/circuitbreaker"
	"ecofinds/models"
	"ecofinds/repository"

	"go.uber.org/zap"
)

// ProductCache is an optional read-through cache for product detail views.
type ProductCache interface {
	GetProduct(ctx context.Context, id int) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int) error
}

type CatalogService struct {
	store   repository.Store
	cache   ProductCache
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewCatalogService builds the catalog; cache may be nil.
func NewCatalogService(store repository.Store, cache ProductCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: logger,
		breaker: circuitbreaker.NewCircuitBreaker(5, 30*time.Second,
			circuitbreaker.WithFailurePredicate(func(err error) bool {
				return !errors.Is(err, repository.ErrNotFound)
			}),
		),
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CatalogService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.store.ListProducts(ctx, filter)
}

// ListBySeller returns the caller's own listings.
func (s *CatalogService) ListBySeller(ctx context.Context, user models.PublicUser) ([]models.Product, error) {
	return s.store.ListProducts(ctx, models.ProductFilter{SellerID: user.ID})
}

func (s *CatalogService) Get(ctx context.Context, id int) (*models.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.GetProduct(ctx, id); err == nil {
			return p, nil
		}
	}

	var product *models.Product
	err := s.breaker.Execute(ctx, func() error {
		var err error
		product, err = s.store.GetProduct(ctx, id)
		return err
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, newError(ErrNotFound, "Product not found")
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return nil, newError(ErrUnavailable, "Service temporarily unavailable")
	case err != nil:
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn("Failed to cache product", zap.Int("product_id", id), zap.Error(err))
		}
	}
	return product, nil
}

func (s *CatalogService) Create(ctx context.Context, user models.PublicUser, req models.CreateProductRequest) (int, error) {
	product := &models.Product{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		UserID:      user.ID,
		ImageURL:    req.ImageURL,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if err := validateProduct(product, req.Price == nil); err != nil {
		return 0, err
	}

	if err := s.store.CreateProduct(ctx, product); err != nil {
		return 0, translateProductWrite(err)
	}

	s.logger.Info("Product created", zap.Int("product_id", product.ID), zap.Int("user_id", user.ID))
	return product.ID, nil
}

// Update overwrites only the fields present in req. Existence is checked
// before ownership so a missing product is always reported as not found.
func (s *CatalogService) Update(ctx context.Context, user models.PublicUser, id int, req models.UpdateProductRequest) (*models.Product, error) {
	if req.IsEmpty() {
		return nil, newError(ErrValidation, "No fields to update")
	}

	product, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	req.Apply(product)
	if err := validateProduct(product, false); err != nil {
		return nil, err
	}

	if err := s.store.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Product not found")
		}
		return nil, translateProductWrite(err)
	}
	s.invalidate(ctx, id)

	updated, err := s.store.GetProduct(ctx, id)
	if err != nil {
		// Deleted between the update and the read-back.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Product not found")
		}
		return nil, err
	}

	s.logger.Info("Product updated", zap.Int("product_id", id), zap.Int("user_id", user.ID))
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, user models.PublicUser, id int) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Product not found")
		}
		return err
	}
	s.invalidate(ctx, id)

	s.logger.Info("Product deleted", zap.Int("product_id", id), zap.Int("user_id", user.ID))
	return nil
}

func (s *CatalogService) owned(ctx context.Context, user models.PublicUser, id int) (*models.Product, error) {
	product, err := s.store.GetProduct(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Product not found")
	}
	if err != nil {
		return nil, err
	}
	if product.UserID != user.ID {
		return nil, newError(ErrForbidden, "Not authorized to modify this product")
	}
	return product, nil
}

func (s *CatalogService) invalidate(ctx context.Context, id int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		s.logger.Warn("Failed to invalidate cached product", zap.Int("product_id", id), zap.Error(err))
	}
}

func validateProduct(p *models.Product, missingPrice bool) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return newError(ErrValidation, "Title is required")
	case missingPrice:
		return newError(ErrValidation, "Price is required")
	case p.Price < 0:
		return newError(ErrValidation, "Price must not be negative")
	case p.CategoryID <= 0:
		return newError(ErrValidation, "Category is required")
	}
	return nil
}

func translateProductWrite(err error) error {
	if errors.Is(err, repository.ErrInvalidReference) {
		return newError(ErrValidation, "Category does not exist")
	}
	return err
}
