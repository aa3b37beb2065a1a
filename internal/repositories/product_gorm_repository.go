package repositories

import (
	"context"
	"errors"
	"fmt"

	"toko/internal/apperror"
	"toko/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products, newest first.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

func (r *GORMProductRepository) GetForUpdate(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := forUpdate(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, fmt.Errorf("failed to lock product %s: %w", id, err)
	}
	return &product, nil
}

// ListBySeller retrieves the seller's own listings, newest first.
func (r *GORMProductRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products of seller %s: %w", sellerID, err)
	}
	return products, nil
}

// Create inserts a new product, generating an ID when none is set.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// UpdateDetails writes name, description and price. Stock is left untouched.
func (r *GORMProductRepository) UpdateDetails(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product not found")
	}
	return nil
}

// Delete removes a product. A product still referenced by a cart or an order is kept.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	var refs int64
	if err := db.Model(&models.CartLine{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to check cart references: %w", err)
	}
	if refs == 0 {
		if err := db.Model(&models.OrderLine{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return fmt.Errorf("failed to check order references: %w", err)
		}
	}
	if refs > 0 {
		return apperror.InvalidState("product is in use by carts or orders")
	}

	res := db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return apperror.InvalidState("product is in use by carts or orders")
		}
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("product not found")
	}
	return nil
}
