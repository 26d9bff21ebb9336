package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/brewhub/brewhub/internal/catalog/domain"
	"github.com/brewhub/brewhub/internal/config"
)

type service struct {
	repo            domain.Repository
	genID           *snowflake.Node
	defaultCurrency string
	log             *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, cfg config.Config, log *zap.Logger) domain.Service {
	return &service{
		repo:            repo,
		genID:           genID,
		defaultCurrency: cfg.Stripe.DefaultCurrency,
		log:             log.Named("catalog.service"),
	}
}

func (s *service) CreateCategory(ctx context.Context, tenantID string, req domain.CategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:        s.genID.Generate(),
		TenantID:  tenantID,
		Name:      name,
		Position:  req.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (s *service) ListCategories(ctx context.Context, tenantID string) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx, tenantID)
}

func (s *service) UpdateCategory(ctx context.Context, tenantID string, id snowflake.ID, req domain.CategoryRequest) (*domain.Category, error) {
	category, err := s.repo.FindCategory(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		category.Name = name
	}
	category.Position = req.Position
	category.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCategory(ctx, *category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, tenantID string, id snowflake.ID) error {
	category, err := s.repo.FindCategory(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrCategoryNotFound
	}

	return s.repo.DeleteCategory(ctx, tenantID, id)
}

func (s *service) CreateProduct(ctx context.Context, tenantID string, req domain.ProductRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.PriceAmount < 0 {
		return nil, domain.ErrInvalidPrice
	}

	if req.CategoryID != 0 {
		category, err := s.repo.FindCategory(ctx, tenantID, req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrCategoryNotFound
		}
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	now := time.Now().UTC()
	product := domain.Product{
		ID:          s.genID.Generate(),
		TenantID:    tenantID,
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		PriceAmount: req.PriceAmount,
		Currency:    currency,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Available:   available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	return &product, nil
}

func (s *service) GetProduct(ctx context.Context, tenantID string, id snowflake.ID) (*domain.Product, error) {
	product, err := s.repo.FindProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	return product, nil
}

func (s *service) ListProducts(ctx context.Context, tenantID string, categoryID *snowflake.ID) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, tenantID, categoryID)
}

func (s *service) UpdateProduct(ctx context.Context, tenantID string, id snowflake.ID, req domain.ProductRequest) (*domain.Product, error) {
	product, err := s.repo.FindProduct(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		product.Name = name
	}
	if req.CategoryID != 0 {
		category, err := s.repo.FindCategory(ctx, tenantID, req.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrCategoryNotFound
		}
		product.CategoryID = req.CategoryID
	}
	if req.PriceAmount > 0 {
		product.PriceAmount = req.PriceAmount
	}
	if currency := strings.ToLower(strings.TrimSpace(req.Currency)); currency != "" {
		product.Currency = currency
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		product.Description = desc
	}
	if imageURL := strings.TrimSpace(req.ImageURL); imageURL != "" {
		product.ImageURL = imageURL
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProduct(ctx, *product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *service) DeleteProduct(ctx context.Context, tenantID string, id snowflake.ID) error {
	product, err := s.repo.FindProduct(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrProductNotFound
	}

	return s.repo.DeleteProduct(ctx, tenantID, id)
}
