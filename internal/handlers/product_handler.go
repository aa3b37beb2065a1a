package handlers

import (
	"toko/internal/models"
	"toko/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/mine", withActor(h.HandleGetSellerProducts))
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", withActor(h.HandleCreateProduct))
	productRoutes.Put("/:id", withActor(h.HandleUpdateProduct))
	productRoutes.Delete("/:id", withActor(h.HandleDeleteProduct))
}

func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "products retrieved", products)
}

func (h *ProductHandler) HandleGetSellerProducts(c *fiber.Ctx, actor models.Actor) error {
	products, err := h.service.ListSellerProducts(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "products retrieved", products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "product retrieved", product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx, actor models.Actor) error {
	var in models.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.service.CreateProduct(c.UserContext(), actor, in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, "product created", product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx, actor models.Actor) error {
	var in models.ProductUpdateInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	product, err := h.service.UpdateProduct(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "product updated", product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx, actor models.Actor) error {
	if err := h.service.DeleteProduct(c.UserContext(), actor, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "product deleted", nil)
}
