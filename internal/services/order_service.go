package services

import (
	"context"
	"fmt"

	"toko/internal/apperror"
	"toko/internal/logger"
	"toko/internal/models"
	"toko/internal/repositories"

	"go.uber.org/zap"
)

// OrderService handles business logic related to orders after checkout.
type OrderService struct {
	store     repositories.Store
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(store repositories.Store, publisher EventPublisher) *OrderService {
	return &OrderService{store: store, publisher: publisher}
}

// UpdateStatus moves an order one step forward in its lifecycle. Admins may update any
// order; sellers only orders containing at least one of their products.
func (s *OrderService) UpdateStatus(ctx context.Context, actor models.Actor, in models.UpdateStatusInput) (*models.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "OrderService.UpdateStatus"),
		zap.String("user_id", actor.UserID),
		zap.String("order_id", in.OrderID),
		zap.String("status", string(in.Status)),
	)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	var (
		order *models.Order
		from  models.OrderStatus
	)
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		order, err = tx.Orders().GetForUpdate(ctx, in.OrderID)
		if err != nil {
			return err
		}

		if !actor.IsAdmin() {
			involved, err := tx.Orders().InvolvesSeller(ctx, order.ID, actor.UserID)
			if err != nil {
				return err
			}
			if !involved {
				return apperror.Forbidden("you are not allowed to update this order")
			}
		}

		if in.Status == models.StatusCancelled {
			return apperror.InvalidState("orders are cancelled by the buyer while unpaid")
		}
		if !models.CanTransition(order.Status, in.Status) {
			return apperror.InvalidState(fmt.Sprintf("cannot change order status from %s to %s", order.Status, in.Status))
		}

		ok, err := tx.Orders().CompareAndSetStatus(ctx, order.ID, order.Status, in.Status)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.InvalidState("order status changed concurrently, reload and retry")
		}
		from = order.Status
		order.Status = in.Status
		return nil
	})
	if err != nil {
		return nil, failed(log, "update order status failed", err)
	}

	log.Info("order status updated", zap.String("from", string(from)))
	ev := newOrderEvent(EventOrderStatusChanged, order, actor.UserID)
	ev.PreviousStatus = from
	publishEvent(ctx, s.publisher, ev)
	return order, nil
}

// Cancel deletes an UNPAID order of the actor and returns its quantities to stock.
func (s *OrderService) Cancel(ctx context.Context, actor models.Actor, orderID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "OrderService.Cancel"),
		zap.String("user_id", actor.UserID),
		zap.String("order_id", orderID),
	)

	var order *models.Order
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		order, err = tx.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != actor.UserID {
			return apperror.NotFound("order not found")
		}
		if order.Status != models.StatusUnpaid {
			return apperror.InvalidState("only unpaid orders can be cancelled")
		}

		for _, l := range order.Lines {
			if err := tx.Inventory().Increment(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		ok, err := tx.Orders().DeleteUnpaid(ctx, order.ID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.InvalidState("only unpaid orders can be cancelled")
		}
		return nil
	})
	if err != nil {
		return failed(log, "cancel order failed", err)
	}

	log.Info("order cancelled", zap.Int("lines", len(order.Lines)))
	order.Status = models.StatusCancelled
	publishEvent(ctx, s.publisher, newOrderEvent(EventOrderCancelled, order, actor.UserID))
	return nil
}

// Get returns an order visible to the actor: its buyer, a seller with products in it, or an admin.
func (s *OrderService) Get(ctx context.Context, actor models.Actor, orderID string) (*models.Order, error) {
	log := logger.FromCtx(ctx).With(zap.String("method", "OrderService.Get"), zap.String("order_id", orderID))

	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, failed(log, "get order failed", err)
	}
	if actor.IsAdmin() || order.UserID == actor.UserID {
		return order, nil
	}

	involved, err := s.store.Orders().InvolvesSeller(ctx, order.ID, actor.UserID)
	if err != nil {
		return nil, failed(log, "get order failed", err)
	}
	if !involved {
		return nil, apperror.NotFound("order not found")
	}
	return order, nil
}

// ListForBuyer returns the actor's own orders, newest first.
func (s *OrderService) ListForBuyer(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	orders, err := s.store.Orders().ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, failed(logger.FromCtx(ctx).With(zap.String("method", "OrderService.ListForBuyer")), "list orders failed", err)
	}
	return orders, nil
}

// ListForSeller returns orders containing the actor's products, with lines limited to those products.
func (s *OrderService) ListForSeller(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	if !actor.CanSell() {
		return nil, apperror.Forbidden("only sellers can list their sales")
	}
	orders, err := s.store.Orders().ListBySeller(ctx, actor.UserID)
	if err != nil {
		return nil, failed(logger.FromCtx(ctx).With(zap.String("method", "OrderService.ListForSeller")), "list seller orders failed", err)
	}
	return orders, nil
}
