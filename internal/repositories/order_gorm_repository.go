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

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) CreateLine(ctx context.Context, line *models.OrderLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error; err != nil {
		return fmt.Errorf("failed to create order line: %w", err)
	}
	return nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order not found")
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) GetForUpdate(ctx context.Context, id string) (*models.Order, error) {
	db := r.db.WithContext(ctx)

	var order models.Order
	if err := forUpdate(db).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("order not found")
		}
		return nil, fmt.Errorf("failed to lock order %s: %w", id, err)
	}
	if err := db.Where("order_id = ?", id).Order("product_id").Find(&order.Lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load lines of order %s: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) ListBySeller(ctx context.Context, sellerID string) ([]models.Order, error) {
	db := r.db.WithContext(ctx)
	sellerProducts := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Product{}).Select("id").Where("seller_id = ?", sellerID)
	sellerOrders := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.OrderLine{}).Select("order_id").Where("product_id IN (?)", sellerProducts)

	var orders []models.Order
	err := db.
		Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Where("product_id IN (?)", sellerProducts).Order("product_id")
		}).
		Where("id IN (?)", sellerOrders).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for seller %s: %w", sellerID, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) InvolvesSeller(ctx context.Context, orderID, sellerID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.OrderLine{}).
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("order_lines.order_id = ? AND products.seller_id = ?", orderID, sellerID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check seller of order %s: %w", orderID, err)
	}
	return n > 0, nil
}

func (r *GORMOrderRepository) CompareAndSetStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update status of order %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *GORMOrderRepository) DeleteUnpaid(ctx context.Context, id string) (bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Where("id = ? AND status = ?", id, models.StatusUnpaid).Delete(&models.Order{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	// The foreign key cascades too; the explicit delete covers connections without FK enforcement.
	if err := db.Where("order_id = ?", id).Delete(&models.OrderLine{}).Error; err != nil {
		return false, fmt.Errorf("failed to delete lines of order %s: %w", id, err)
	}
	return true, nil
}
