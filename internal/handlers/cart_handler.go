package handlers

import (
	"toko/internal/models"
	"toko/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the buyer's cart.
type CartHandler struct {
	service *services.CartService
}

func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", withActor(h.HandleGetCart))
	cartRoutes.Post("/", withActor(h.HandleAddToCart))
	cartRoutes.Delete("/", withActor(h.HandleClearCart))
	cartRoutes.Patch("/:id", withActor(h.HandleUpdateCartLine))
	cartRoutes.Delete("/:id", withActor(h.HandleRemoveCartLine))
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx, actor models.Actor) error {
	lines, err := h.service.List(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "cart retrieved", fiber.Map{
		"items": lines,
		"count": len(lines),
	})
}

func (h *CartHandler) HandleAddToCart(c *fiber.Ctx, actor models.Actor) error {
	var in models.AddToCartInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.service.Add(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "added to cart", line)
}

func (h *CartHandler) HandleUpdateCartLine(c *fiber.Ctx, actor models.Actor) error {
	var in models.UpdateCartInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	line, err := h.service.SetQuantity(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "cart updated", line)
}

func (h *CartHandler) HandleRemoveCartLine(c *fiber.Ctx, actor models.Actor) error {
	if err := h.service.Remove(c.UserContext(), actor, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "removed from cart", nil)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx, actor models.Actor) error {
	removed, err := h.service.Clear(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "cart cleared", fiber.Map{"removed": removed})
}
