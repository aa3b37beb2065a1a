package services

import (
	"context"

	"toko/internal/apperror"
	"toko/internal/logger"
	"toko/internal/models"
	"toko/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReplayCache maps an idempotency key to the order its checkout produced.
type ReplayCache interface {
	Get(ctx context.Context, key string) (orderID string, found bool, err error)
	Put(ctx context.Context, key, orderID string) error
}

// CheckoutService turns a buyer's cart into an UNPAID order.
type CheckoutService struct {
	store     repositories.Store
	publisher EventPublisher
	replay    ReplayCache
}

// NewCheckoutService creates a new CheckoutService. publisher and replay may be nil.
func NewCheckoutService(store repositories.Store, publisher EventPublisher, replay ReplayCache) *CheckoutService {
	return &CheckoutService{store: store, publisher: publisher, replay: replay}
}

// Checkout validates the cart against live stock, creates the order with its lines,
// decrements stock and clears the cart, all in one transaction.
// A non-empty idempotencyKey that already produced an order returns that order.
func (s *CheckoutService) Checkout(ctx context.Context, actor models.Actor, idempotencyKey string) (*models.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CheckoutService.Checkout"),
		zap.String("user_id", actor.UserID),
	)

	if actor.UserID == "" {
		return nil, apperror.Validation("user is required", map[string]string{"user_id": "Field 'user_id' failed on the 'required' tag"})
	}

	replayKey := ""
	if idempotencyKey != "" {
		replayKey = actor.UserID + ":" + idempotencyKey
		if order := s.lookupReplay(ctx, log, replayKey); order != nil {
			log.Info("checkout replayed", zap.String("order_id", order.ID))
			return order, nil
		}
	}

	var order *models.Order
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		order, err = placeOrder(ctx, tx, actor.UserID)
		return err
	})
	if err != nil {
		return nil, failed(log, "checkout failed", err)
	}

	log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.Int("lines", len(order.Lines)))

	if replayKey != "" && s.replay != nil {
		if err := s.replay.Put(ctx, replayKey, order.ID); err != nil {
			log.Warn("failed to remember checkout", zap.Error(err))
		}
	}
	publishEvent(ctx, s.publisher, newOrderEvent(EventOrderCreated, order, actor.UserID))
	return order, nil
}

func (s *CheckoutService) lookupReplay(ctx context.Context, log *zap.Logger, key string) *models.Order {
	if s.replay == nil {
		return nil
	}
	orderID, found, err := s.replay.Get(ctx, key)
	if err != nil {
		log.Warn("checkout replay lookup failed", zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		// A cancelled order no longer exists; the key then behaves like a new one.
		log.Debug("replayed order unavailable", zap.String("order_id", orderID), zap.Error(err))
		return nil
	}
	return order
}

// placeOrder runs inside the checkout transaction. Any error rolls everything back.
func placeOrder(ctx context.Context, tx repositories.Store, userID string) (*models.Order, error) {
	lines, err := tx.Carts().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperror.EmptyCart()
	}

	var short []string
	for _, l := range lines {
		if l.Product == nil {
			return nil, apperror.NotFound("product not found")
		}
		if l.Quantity > l.Product.Stock {
			short = append(short, l.Product.Name)
		}
	}
	if len(short) > 0 {
		return nil, apperror.InsufficientStock(short...)
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	order := &models.Order{
		UserID:      userID,
		TotalAmount: total,
		Status:      models.StatusUnpaid,
	}
	if err := tx.Orders().Create(ctx, order); err != nil {
		return nil, err
	}

	// Lines arrive ordered by product ID, so concurrent checkouts take row locks in the same order.
	lineIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		ol := models.OrderLine{
			OrderID:     order.ID,
			ProductID:   l.ProductID,
			ProductName: l.Product.Name,
			Quantity:    l.Quantity,
			Price:       l.Product.Price,
		}
		if err := tx.Orders().CreateLine(ctx, &ol); err != nil {
			return nil, err
		}
		if err := tx.Inventory().Decrement(ctx, l.ProductID, l.Quantity); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, ol)
		lineIDs = append(lineIDs, l.ID)
	}

	if _, err := tx.Carts().DeleteLines(ctx, userID, lineIDs); err != nil {
		return nil, err
	}
	return order, nil
}
