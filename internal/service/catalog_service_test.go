package service

import (
	"context"
	"errors"
	"testing"

	"eau-clair-web/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestCatalogService_ListActiveSwallowsErrors(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("ListActive", mock.Anything).Return(nil, errors.New("connection refused"))

	products := NewCatalogService(repo).ListActive(context.Background())

	assert.NotNil(t, products)
	assert.Empty(t, products)
	repo.AssertExpectations(t)
}

func TestCatalogService_Featured(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("ListActive", mock.Anything).Return([]model.Product{
		{Name: "a", IsActive: true}, {Name: "b", IsActive: true}, {Name: "c", IsActive: true},
	}, nil)

	svc := NewCatalogService(repo)

	featured := svc.Featured(context.Background(), 2)
	assert.Len(t, featured, 2)
	assert.Equal(t, "a", featured[0].Name)

	assert.Len(t, svc.Featured(context.Background(), 10), 3)
}

func TestCatalogService_Get(t *testing.T) {
	repo := new(MockProductRepository)
	found := uuid.New()
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, found).Return(&model.Product{Name: "Spring 500ml", IsActive: false}, nil)
	repo.On("FindByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)

	svc := NewCatalogService(repo)

	p, err := svc.Get(context.Background(), found)
	assert.NoError(t, err)
	assert.Equal(t, "Spring 500ml", p.Name)

	_, err = svc.Get(context.Background(), missing)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFilterByCategory(t *testing.T) {
	products := []model.Product{
		{Name: "still", Category: model.CategoryStillWater},
		{Name: "fizz", Category: model.CategorySparkling},
		{Name: "jug", Category: model.CategoryBulk},
	}

	assert.Len(t, FilterByCategory(products, CategoryAll), 3)
	assert.Len(t, FilterByCategory(products, ""), 3)

	sparkling := FilterByCategory(products, model.CategorySparkling)
	assert.Len(t, sparkling, 1)
	assert.Equal(t, "fizz", sparkling[0].Name)

	assert.Empty(t, FilterByCategory(products, model.CategoryPremium))
}
