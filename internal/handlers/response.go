package handlers

import (
	"toko/internal/apperror"
	"toko/internal/middleware"
	"toko/internal/models"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps an error kind to its HTTP status code.
func statusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	case apperror.KindInsufficientStock, apperror.KindExceedsStock, apperror.KindInvalidState:
		return fiber.StatusConflict
	case apperror.KindEmptyCart:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func respond(c *fiber.Ctx, status int, success string, data any) error {
	result := apperror.Render(success, nil)
	result.Data = data
	return c.Status(status).JSON(result)
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(apperror.Render("", err))
}

func badBody(c *fiber.Ctx) error {
	return respondError(c, apperror.Validation("invalid request body", nil))
}

// withActor hands the authenticated actor to fn and rejects requests without one.
func withActor(fn func(c *fiber.Ctx, actor models.Actor) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(apperror.Result{Error: "authentication required"})
		}
		return fn(c, actor)
	}
}
