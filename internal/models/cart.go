package models

import "time"

// CartLine is one product in a buyer's cart. There is at most one line per (user, product).
type CartLine struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_product"`
	Product   *Product  `json:"product,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddToCartInput is the payload for adding a product to the cart.
type AddToCartInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=10000"`
}

// UpdateCartInput is the payload for setting a cart line quantity.
type UpdateCartInput struct {
	Quantity int `json:"quantity" validate:"gt=0,lte=10000"`
}
