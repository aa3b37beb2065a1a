package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product listed by a seller.
// Stock is only ever changed through the inventory ledger.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SellerID    string          `json:"seller_id" gorm:"type:varchar(36);not null;index"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Description string          `json:"description" gorm:"type:varchar(1000)"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock       int             `json:"stock" gorm:"not null;check:chk_products_stock,stock >= 0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductInput is the payload for creating a product.
type ProductInput struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"gt=0,lte=9999999999"`
	Stock       int             `json:"stock" validate:"gte=0"`
}

// ProductUpdateInput is the payload for editing a listing. Stock is not editable here.
type ProductUpdateInput struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description" validate:"omitempty,max=1000"`
	Price       decimal.Decimal `json:"price" validate:"gt=0,lte=9999999999"`
}
