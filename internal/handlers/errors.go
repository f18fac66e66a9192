package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stocktracker/internal/models"
)

func badRequest(c *fiber.Ctx, msg string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error:   msg,
		Message: err.Error(),
		Code:    fiber.StatusBadRequest,
	})
}

// providerError maps service errors to HTTP statuses. Every failure is an
// inline JSON error; nothing here is fatal to the process.
func providerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownTicker):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error:   "Ticker not found",
			Message: err.Error(),
			Code:    fiber.StatusNotFound,
		})
	case errors.Is(err, models.ErrInvalidRange), errors.Is(err, models.ErrInvalidMode):
		return badRequest(c, "Invalid request", err)
	case errors.Is(err, models.ErrAINotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
			Error:   "AI analysis unavailable",
			Message: "Set GEMINI_API_KEY to enable AI features",
			Code:    fiber.StatusServiceUnavailable,
		})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(models.ErrorResponse{
			Error:   "Market data provider failure",
			Message: err.Error(),
			Code:    fiber.StatusBadGateway,
		})
	}
}

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
