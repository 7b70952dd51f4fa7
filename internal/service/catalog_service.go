package service

import (
	"context"

	"eau-clair-web/internal/model"
	"eau-clair-web/internal/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryAll is the catalog filter value that matches every category.
const CategoryAll = "All"

type CatalogService interface {
	ListActive(ctx context.Context) []model.Product
	Featured(ctx context.Context, n int) []model.Product
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// ListActive returns the public catalog. A storage failure is logged and
// yields an empty catalog so public pages still render.
func (s *catalogService) ListActive(ctx context.Context) []model.Product {
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		zap.L().Error("list active products", zap.Error(err))
		return []model.Product{}
	}
	return products
}

// Featured returns the n newest active products.
func (s *catalogService) Featured(ctx context.Context, n int) []model.Product {
	products := s.ListActive(ctx)
	if n >= 0 && len(products) > n {
		products = products[:n]
	}
	return products
}

// Get returns a product by id whether or not it is active.
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product")
	}
	return product, nil
}

// FilterByCategory keeps the products in category; CategoryAll or "" keeps everything.
func FilterByCategory(products []model.Product, category string) []model.Product {
	if category == "" || category == CategoryAll {
		return products
	}
	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
