package repositories

import (
	"context"

	"toko/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// ListByUser returns the user's lines with their products, ordered by product ID.
	ListByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	// FindByProduct returns the user's line for a product, or nil when there is none.
	FindByProduct(ctx context.Context, userID, productID string) (*models.CartLine, error)
	// GetForUser returns a line owned by the user, or NotFound.
	GetForUser(ctx context.Context, userID, lineID string) (*models.CartLine, error)
	Create(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, lineID string, qty int) error
	Delete(ctx context.Context, userID, lineID string) error
	// DeleteLines removes the given lines of one user and reports how many were removed.
	DeleteLines(ctx context.Context, userID string, lineIDs []string) (int64, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
