package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCategory(ctx context.Context, category Category) error
	FindCategory(ctx context.Context, tenantID string, id snowflake.ID) (*Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]Category, error)
	UpdateCategory(ctx context.Context, category Category) error
	DeleteCategory(ctx context.Context, tenantID string, id snowflake.ID) error

	CreateProduct(ctx context.Context, product Product) error
	FindProduct(ctx context.Context, tenantID string, id snowflake.ID) (*Product, error)
	ListProducts(ctx context.Context, tenantID string, categoryID *snowflake.ID) ([]Product, error)
	UpdateProduct(ctx context.Context, product Product) error
	DeleteProduct(ctx context.Context, tenantID string, id snowflake.ID) error
}

type Service interface {
	CreateCategory(ctx context.Context, tenantID string, req CategoryRequest) (*Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]Category, error)
	UpdateCategory(ctx context.Context, tenantID string, id snowflake.ID, req CategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, tenantID string, id snowflake.ID) error

	CreateProduct(ctx context.Context, tenantID string, req ProductRequest) (*Product, error)
	GetProduct(ctx context.Context, tenantID string, id snowflake.ID) (*Product, error)
	ListProducts(ctx context.Context, tenantID string, categoryID *snowflake.ID) ([]Product, error)
	UpdateProduct(ctx context.Context, tenantID string, id snowflake.ID, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, tenantID string, id snowflake.ID) error
}

type CategoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type ProductRequest struct {
	CategoryID  snowflake.ID `json:"category_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	PriceAmount int64        `json:"price_amount"`
	Currency    string       `json:"currency"`
	ImageURL    string       `json:"image_url"`
	Available   *bool        `json:"available"`
}
