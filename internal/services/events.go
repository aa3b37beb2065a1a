package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"toko/internal/logger"
	"toko/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys of order events.
const (
	EventOrderCreated       = "order.created"
	EventOrderCancelled     = "order.cancelled"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher delivers order events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// OrderEvent is the payload published after an order operation commits.
type OrderEvent struct {
	Type           string             `json:"type"`
	OrderID        string             `json:"order_id"`
	UserID         string             `json:"user_id"`
	ActorID        string             `json:"actor_id"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previous_status,omitempty"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Items          []OrderEventItem   `json:"items,omitempty"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

type OrderEventItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func newOrderEvent(eventType string, order *models.Order, actorID string) OrderEvent {
	items := make([]OrderEventItem, 0, len(order.Lines))
	for _, l := range order.Lines {
		items = append(items, OrderEventItem{ProductID: l.ProductID, Quantity: l.Quantity, Price: l.Price})
	}
	return OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		ActorID:     actorID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       items,
		OccurredAt:  time.Now().UTC(),
	}
}

// publishEvent is best effort: the operation has already committed, so a broker
// failure is logged and otherwise ignored.
func publishEvent(ctx context.Context, p EventPublisher, ev OrderEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(context.WithoutCancel(ctx), ev.Type, ev); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish order event",
			zap.String("event", ev.Type),
			zap.String("order_id", ev.OrderID),
			zap.Error(err))
	}
}

// AuditOrderEvent writes one audit log line for an order event received from the broker.
func AuditOrderEvent(ctx context.Context, body []byte) error {
	var ev OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	if ev.OrderID == "" || ev.Type == "" {
		return errors.New("order event without type or order id")
	}

	logger.FromCtx(ctx).Info("order event",
		zap.String("layer", "audit"),
		zap.String("event", ev.Type),
		zap.String("order_id", ev.OrderID),
		zap.String("user_id", ev.UserID),
		zap.String("actor_id", ev.ActorID),
		zap.String("status", string(ev.Status)),
		zap.String("previous_status", string(ev.PreviousStatus)),
		zap.String("total_amount", ev.TotalAmount.StringFixed(2)),
		zap.Int("items", len(ev.Items)),
		zap.Time("occurred_at", ev.OccurredAt))
	return nil
}
