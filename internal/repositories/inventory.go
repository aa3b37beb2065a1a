package repositories

import (
	"context"
	"errors"
	"fmt"

	"toko/internal/apperror"
	"toko/internal/models"

	"gorm.io/gorm"
)

// InventoryLedger is the only writer of product stock.
type InventoryLedger interface {
	// Decrement removes qty units, failing with InsufficientStock instead of going negative.
	Decrement(ctx context.Context, productID string, qty int) error
	// Increment returns qty units to stock.
	Increment(ctx context.Context, productID string, qty int) error
	Stock(ctx context.Context, productID string) (int, error)
}

// GORMInventoryLedger implements InventoryLedger with single conditional UPDATE statements,
// so concurrent decrements can never oversell regardless of isolation level.
type GORMInventoryLedger struct {
	db *gorm.DB
}

func NewGORMInventoryLedger(db *gorm.DB) *GORMInventoryLedger {
	return &GORMInventoryLedger{db: db}
}

func (l *GORMInventoryLedger) Decrement(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return invalidQuantity()
	}

	res := l.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var product models.Product
	if err := l.db.WithContext(ctx).Select("id", "name").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("product not found")
		}
		return fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	return apperror.InsufficientStock(product.Name)
}

func (l *GORMInventoryLedger) Increment(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return invalidQuantity()
	}

	res := l.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to increment stock for product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product not found")
	}
	return nil
}

func (l *GORMInventoryLedger) Stock(ctx context.Context, productID string) (int, error) {
	var product models.Product
	if err := l.db.WithContext(ctx).Select("id", "stock").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperror.NotFound("product not found")
		}
		return 0, fmt.Errorf("failed to read stock for product %s: %w", productID, err)
	}
	return product.Stock, nil
}

func invalidQuantity() error {
	return apperror.Validation("quantity must be greater than zero", map[string]string{
		"quantity": "Field 'quantity' failed on the 'gt' tag",
	})
}
