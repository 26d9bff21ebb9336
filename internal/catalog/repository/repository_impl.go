package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/brewhub/brewhub/internal/catalog/domain"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateCategory(ctx context.Context, category domain.Category) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO categories (id, tenant_id, name, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.TenantID,
		category.Name,
		category.Position,
		category.CreatedAt,
		category.UpdatedAt,
	).Error
}

func (r *repository) FindCategory(ctx context.Context, tenantID string, id snowflake.ID) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &category, nil
}

func (r *repository) ListCategories(ctx context.Context, tenantID string) ([]domain.Category, error) {
	var items []domain.Category
	err := r.db.WithContext(ctx).Raw(
		`SELECT *
		 FROM categories
		 WHERE tenant_id = ?
		 ORDER BY position ASC, created_at ASC`,
		tenantID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) UpdateCategory(ctx context.Context, category domain.Category) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE categories
		 SET name = ?, position = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		category.Name,
		category.Position,
		category.UpdatedAt,
		category.TenantID,
		category.ID,
	).Error
}

func (r *repository) DeleteCategory(ctx context.Context, tenantID string, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM categories WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Error
}

func (r *repository) CreateProduct(ctx context.Context, product domain.Product) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO products (
			id, tenant_id, category_id, name, description, price_amount,
			currency, image_url, available, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.TenantID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.PriceAmount,
		product.Currency,
		product.ImageURL,
		product.Available,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repository) FindProduct(ctx context.Context, tenantID string, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &product, nil
}

func (r *repository) ListProducts(ctx context.Context, tenantID string, categoryID *snowflake.ID) ([]domain.Product, error) {
	query := `SELECT *
		 FROM products
		 WHERE tenant_id = ?`
	args := []any{tenantID}
	if categoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY created_at ASC`

	var items []domain.Product
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) UpdateProduct(ctx context.Context, product domain.Product) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE products
		 SET category_id = ?, name = ?, description = ?, price_amount = ?,
		     currency = ?, image_url = ?, available = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		product.CategoryID,
		product.Name,
		product.Description,
		product.PriceAmount,
		product.Currency,
		product.ImageURL,
		product.Available,
		product.UpdatedAt,
		product.TenantID,
		product.ID,
	).Error
}

func (r *repository) DeleteProduct(ctx context.Context, tenantID string, id snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM products WHERE tenant_id = ? AND id = ?`,
		tenantID,
		id,
	).Error
}
