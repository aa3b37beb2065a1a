package repositories

import (
	"context"

	"toko/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create inserts the order header only. Lines go through CreateLine.
	Create(ctx context.Context, order *models.Order) error
	CreateLine(ctx context.Context, line *models.OrderLine) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// GetForUpdate loads the order with its lines and locks the order row where the dialect supports it.
	GetForUpdate(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	// ListBySeller returns orders containing the seller's products, each carrying only those lines.
	ListBySeller(ctx context.Context, sellerID string) ([]models.Order, error)
	// InvolvesSeller reports whether any line of the order references a product of the seller.
	InvolvesSeller(ctx context.Context, orderID, sellerID string) (bool, error)
	// CompareAndSetStatus moves the order to "to" only if it is still in "from".
	CompareAndSetStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error)
	// DeleteUnpaid removes an order and its lines if the order is still UNPAID.
	DeleteUnpaid(ctx context.Context, id string) (bool, error)
}
