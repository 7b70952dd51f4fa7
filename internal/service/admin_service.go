package service

import (
	"context"
	"html"
	"strings"

	"eau-clair-web/internal/cache"
	"eau-clair-web/internal/metrics"
	"eau-clair-web/internal/model"
	"eau-clair-web/internal/repository"
	"eau-clair-web/internal/ws"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feed event actions.
const (
	ActionCreated = "product_created"
	ActionUpdated = "product_updated"
	ActionDeleted = "product_deleted"
)

// ProductInput is the admin product form after type coercion.
type ProductInput struct {
	Name        string   `form:"name" validate:"notblank"`
	Description string   `form:"description"`
	Size        string   `form:"size"`
	Price       *float64 `form:"price" validate:"required,gte=0"`
	Category    string   `form:"category" validate:"required,oneof='Still Water' Sparkling Premium Bulk"`
	ImageURL    string   `form:"image_url" validate:"notblank"`
	Stock       *int     `form:"stock" validate:"required,gte=0"`
	IsActive    bool     `form:"is_active"`
}

// DeleteResult is handed back to the caller of a delete instead of an error.
type DeleteResult struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RouteInvalidator drops cached route output.
type RouteInvalidator interface {
	Invalidate(ctx context.Context, routes ...string)
}

type AdminService interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, in *ProductInput, actor string) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in *ProductInput, actor string) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor string) DeleteResult
}

type adminService struct {
	productRepo repository.ProductRepository
	routes      RouteInvalidator
	wsHub       *ws.Hub
	policy      *bluemonday.Policy
}

func NewAdminService(productRepo repository.ProductRepository, routes RouteInvalidator, hub *ws.Hub) AdminService {
	return &adminService{
		productRepo: productRepo,
		routes:      routes,
		wsHub:       hub,
		policy:      bluemonday.StrictPolicy(),
	}
}

func (s *adminService) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return products, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product")
	}
	return product, nil
}

func (s *adminService) CreateProduct(ctx context.Context, in *ProductInput, actor string) (*model.Product, error) {
	if err := validate(in); err != nil {
		metrics.ProductMutations.WithLabelValues("create", metrics.ResultError).Inc()
		return nil, err
	}

	product := s.toProduct(in)
	if err := s.productRepo.Create(ctx, product); err != nil {
		metrics.ProductMutations.WithLabelValues("create", metrics.ResultError).Inc()
		return nil, err
	}

	s.afterMutation(ctx, ActionCreated, product, actor)
	metrics.ProductMutations.WithLabelValues("create", metrics.ResultOK).Inc()
	return product, nil
}

// UpdateProduct overwrites every form column of the product. Concurrent edits are last write wins.
func (s *adminService) UpdateProduct(ctx context.Context, id uuid.UUID, in *ProductInput, actor string) (*model.Product, error) {
	if err := validate(in); err != nil {
		metrics.ProductMutations.WithLabelValues("update", metrics.ResultError).Inc()
		return nil, err
	}

	product := s.toProduct(in)
	product.ID = id
	err := s.productRepo.Update(ctx, product)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrProductNotFound
	}
	if err != nil {
		metrics.ProductMutations.WithLabelValues("update", metrics.ResultError).Inc()
		return nil, err
	}

	s.afterMutation(ctx, ActionUpdated, product, actor)
	metrics.ProductMutations.WithLabelValues("update", metrics.ResultOK).Inc()
	return product, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id uuid.UUID, actor string) DeleteResult {
	err := s.productRepo.Delete(ctx, id)
	metrics.ProductMutations.WithLabelValues("delete", metrics.Result(err)).Inc()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DeleteResult{Error: ErrProductNotFound.Error()}
	}
	if err != nil {
		zap.L().Error("delete product", zap.String("id", id.String()), zap.Error(err))
		return DeleteResult{Error: err.Error()}
	}

	s.afterMutation(ctx, ActionDeleted, map[string]string{"id": id.String()}, actor)
	return DeleteResult{Success: true}
}

func (s *adminService) afterMutation(ctx context.Context, action string, product interface{}, actor string) {
	s.routes.Invalidate(ctx, cache.RouteAdmin, cache.RouteProducts)
	s.wsHub.Publish(ws.Event{
		Type:    "product_update",
		Action:  action,
		Product: product,
		Actor:   actor,
		Message: strings.ReplaceAll(action, "_", " "),
	})
	zap.L().Info("product mutation", zap.String("action", action), zap.String("actor", actor))
}

func (s *adminService) toProduct(in *ProductInput) *model.Product {
	return &model.Product{
		Name:        s.sanitize(in.Name),
		Description: optional(s.sanitize(in.Description)),
		Size:        optional(s.sanitize(in.Size)),
		Price:       *in.Price,
		Category:    in.Category,
		ImageURL:    optional(strings.TrimSpace(in.ImageURL)),
		Stock:       *in.Stock,
		IsActive:    in.IsActive,
	}
}

func (s *adminService) sanitize(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
