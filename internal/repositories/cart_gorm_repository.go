package repositories

import (
	"context"
	"errors"
	"fmt"

	"toko/internal/apperror"
	"toko/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("product_id").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart for user %s: %w", userID, err)
	}
	return lines, nil
}

// FindByProduct returns nil without error when the user has no line for the product.
func (r *GORMCartRepository) FindByProduct(ctx context.Context, userID, productID string) (*models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Limit(1).
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cart line: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &lines[0], nil
}

func (r *GORMCartRepository) GetForUser(ctx context.Context, userID, lineID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ? AND user_id = ?", lineID, userID).
		Take(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("cart item not found")
		}
		return nil, fmt.Errorf("failed to get cart line %s: %w", lineID, err)
	}
	return &line, nil
}

func (r *GORMCartRepository) Create(ctx context.Context, line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) UpdateQuantity(ctx context.Context, lineID string, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("id = ?", lineID).
		Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line %s: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("cart item not found")
	}
	return nil
}

func (r *GORMCartRepository) Delete(ctx context.Context, userID, lineID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", lineID, userID).Delete(&models.CartLine{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line %s: %w", lineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("cart item not found")
	}
	return nil
}

func (r *GORMCartRepository) DeleteLines(ctx context.Context, userID string, lineIDs []string) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, lineIDs).Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart for user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GORMCartRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart for user %s: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GORMCartRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.CartLine{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count cart for user %s: %w", userID, err)
	}
	return n, nil
}
