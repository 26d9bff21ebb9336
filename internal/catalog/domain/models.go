package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Category struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID  string       `json:"tenant_id" gorm:"type:text;not null;index"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Position  int          `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	TenantID    string       `json:"tenant_id" gorm:"type:text;not null;index"`
	CategoryID  snowflake.ID `json:"category_id" gorm:"not null;index"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	Description string       `json:"description" gorm:"type:text"`
	PriceAmount int64        `json:"price_amount" gorm:"not null"`
	Currency    string       `json:"currency" gorm:"type:text;not null"`
	ImageURL    string       `json:"image_url" gorm:"type:text"`
	Available   bool         `json:"available" gorm:"not null;default:true"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null"`
}

func (Product) TableName() string { return "products" }

var (
	ErrCategoryNotFound = errors.New("category_not_found")
	ErrProductNotFound  = errors.New("product_not_found")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidPrice     = errors.New("invalid_price")
)
