package services

import (
	"context"

	"toko/internal/apperror"
	"toko/internal/logger"
	"toko/internal/models"
	"toko/internal/repositories"

	"go.uber.org/zap"
)

// CartService manages the per-buyer cart.
type CartService struct {
	store repositories.Store
}

// NewCartService creates a new CartService.
func NewCartService(store repositories.Store) *CartService {
	return &CartService{store: store}
}

// Add puts quantity units of a product in the actor's cart, merging with an existing line.
// The resulting quantity may not exceed the product's live stock.
func (s *CartService) Add(ctx context.Context, actor models.Actor, in models.AddToCartInput) (*models.CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CartService.Add"),
		zap.String("user_id", actor.UserID),
		zap.String("product_id", in.ProductID),
	)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	var line *models.CartLine
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		// The product row lock serializes concurrent adds of the same product, so the
		// second one sees the first one's line instead of inserting a duplicate.
		product, err := tx.Products().GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product.SellerID == actor.UserID {
			return apperror.Validation("you cannot add your own product to the cart", map[string]string{
				"product_id": "self-purchase is not allowed",
			})
		}

		existing, err := tx.Carts().FindByProduct(ctx, actor.UserID, product.ID)
		if err != nil {
			return err
		}

		inCart := 0
		if existing != nil {
			inCart = existing.Quantity
		}
		if in.Quantity > product.Stock-inCart {
			return apperror.ExceedsStock(product.Name, product.Stock)
		}
		qty := inCart + in.Quantity

		if existing == nil {
			line = &models.CartLine{UserID: actor.UserID, ProductID: product.ID, Quantity: qty}
			if err := tx.Carts().Create(ctx, line); err != nil {
				return err
			}
		} else {
			if err := tx.Carts().UpdateQuantity(ctx, existing.ID, qty); err != nil {
				return err
			}
			existing.Quantity = qty
			line = existing
		}
		line.Product = product
		return nil
	})
	if err != nil {
		return nil, failed(log, "add to cart failed", err)
	}

	log.Info("cart line saved", zap.String("cart_line_id", line.ID), zap.Int("quantity", line.Quantity))
	return line, nil
}

// SetQuantity replaces the quantity of one of the actor's cart lines.
func (s *CartService) SetQuantity(ctx context.Context, actor models.Actor, lineID string, in models.UpdateCartInput) (*models.CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CartService.SetQuantity"),
		zap.String("user_id", actor.UserID),
		zap.String("cart_line_id", lineID),
	)

	if err := validateInput(in); err != nil {
		return nil, err
	}

	var line *models.CartLine
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		var err error
		line, err = tx.Carts().GetForUser(ctx, actor.UserID, lineID)
		if err != nil {
			return err
		}
		if in.Quantity > line.Product.Stock {
			return apperror.ExceedsStock(line.Product.Name, line.Product.Stock)
		}
		if err := tx.Carts().UpdateQuantity(ctx, line.ID, in.Quantity); err != nil {
			return err
		}
		line.Quantity = in.Quantity
		return nil
	})
	if err != nil {
		return nil, failed(log, "update cart line failed", err)
	}
	return line, nil
}

// Remove deletes one of the actor's cart lines.
func (s *CartService) Remove(ctx context.Context, actor models.Actor, lineID string) error {
	if err := s.store.Carts().Delete(ctx, actor.UserID, lineID); err != nil {
		return failed(logger.FromCtx(ctx).With(zap.String("method", "CartService.Remove")), "remove cart line failed", err)
	}
	return nil
}

// Clear empties the actor's cart and reports how many lines were removed.
func (s *CartService) Clear(ctx context.Context, actor models.Actor) (int64, error) {
	n, err := s.store.Carts().DeleteByUser(ctx, actor.UserID)
	if err != nil {
		return 0, failed(logger.FromCtx(ctx).With(zap.String("method", "CartService.Clear")), "clear cart failed", err)
	}
	return n, nil
}

func (s *CartService) List(ctx context.Context, actor models.Actor) ([]models.CartLine, error) {
	lines, err := s.store.Carts().ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, failed(logger.FromCtx(ctx).With(zap.String("method", "CartService.List")), "list cart failed", err)
	}
	return lines, nil
}

func (s *CartService) Count(ctx context.Context, actor models.Actor) (int64, error) {
	n, err := s.store.Carts().CountByUser(ctx, actor.UserID)
	if err != nil {
		return 0, failed(logger.FromCtx(ctx).With(zap.String("method", "CartService.Count")), "count cart failed", err)
	}
	return n, nil
}

// failed logs err at a level matching its kind and converts store failures into
// TransactionFailure so callers only ever see *apperror.Error.
func failed(log *zap.Logger, msg string, err error) error {
	err = apperror.Wrap(err)
	if apperror.KindOf(err) == apperror.KindTransactionFailure {
		log.Error(msg, zap.Error(err))
	} else {
		log.Warn(msg, zap.Error(err))
	}
	return err
}
