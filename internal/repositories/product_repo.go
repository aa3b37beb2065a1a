package repositories

import (
	"context"

	"toko/internal/models"
)

// ProductRepository defines the interface for product data access.
// Stock is never written here; see InventoryLedger.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// GetForUpdate reads a product and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Product, error)
	ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	UpdateDetails(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
}
