package handlers

import (
	"fmt"

	"toko/internal/models"
	"toko/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HeaderIdempotencyKey lets clients retry a checkout without placing a second order.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	checkout *services.CheckoutService
	orders   *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkout *services.CheckoutService, orders *services.OrderService) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/checkout", withActor(h.HandleCheckout))
	orderRoutes.Get("/", withActor(h.HandleGetOrders))
	orderRoutes.Get("/seller", withActor(h.HandleGetSellerOrders))
	orderRoutes.Get("/:id", withActor(h.HandleGetOrderByID))
	orderRoutes.Post("/:id/cancel", withActor(h.HandleCancelOrder))
	orderRoutes.Patch("/:id/status", withActor(h.HandleUpdateOrderStatus))
}

func (h *OrderHandler) HandleCheckout(c *fiber.Ctx, actor models.Actor) error {
	order, err := h.checkout.Checkout(c.UserContext(), actor, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "order created", order)
}

func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx, actor models.Actor) error {
	orders, err := h.orders.ListForBuyer(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "orders retrieved", orders)
}

func (h *OrderHandler) HandleGetSellerOrders(c *fiber.Ctx, actor models.Actor) error {
	orders, err := h.orders.ListForSeller(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "orders retrieved", orders)
}

func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx, actor models.Actor) error {
	order, err := h.orders.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "order retrieved", order)
}

func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx, actor models.Actor) error {
	if err := h.orders.Cancel(c.UserContext(), actor, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "order cancelled", nil)
}

// HandleUpdateOrderStatus updates the status of an existing order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx, actor models.Actor) error {
	var body struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}

	order, err := h.orders.UpdateStatus(c.UserContext(), actor, models.UpdateStatusInput{
		OrderID: c.Params("id"),
		Status:  body.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, fmt.Sprintf("order status updated to %s", order.Status), order)
}
