package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusUnpaid     OrderStatus = "UNPAID"
	StatusPaid       OrderStatus = "PAID"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// validNext lists the statuses reachable through a status update.
// CANCELLED is absent on purpose: only cancellation reaches it.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusUnpaid:     {StatusPaid: true},
	StatusPaid:       {StatusProcessing: true},
	StatusProcessing: {StatusShipped: true},
	StatusShipped:    {StatusCompleted: true},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether a status update may move an order from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// Terminal reports whether no further transition is possible from s.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

// Order represents a buyer's order. Only Status changes after creation.
type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string          `json:"user_id" gorm:"type:varchar(36);not null;index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Status      OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	Lines       []OrderLine     `json:"lines" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderLine represents a single item within an order.
type OrderLine struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	ProductID   string          `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product     *Product        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProductName string          `json:"product_name" gorm:"type:varchar(200);not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"` // Price at the time of order
	CreatedAt   time.Time       `json:"created_at"`
}

// Subtotal is quantity times the captured unit price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// UpdateStatusInput is the payload for a status update.
type UpdateStatusInput struct {
	OrderID string      `json:"order_id" validate:"required"`
	Status  OrderStatus `json:"status" validate:"required,oneof=UNPAID PAID PROCESSING SHIPPED COMPLETED CANCELLED"`
}
