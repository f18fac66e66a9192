package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	startTime time.Time
	aiEnabled bool
}

func NewHealthHandler(aiEnabled bool) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		aiEnabled: aiEnabled,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": "stocktracker",
		"version": "1.0.0",
		"uptime":  time.Since(h.startTime).String(),
		"time":    time.Now(),
	})
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ai := "disabled"
	if h.aiEnabled {
		ai = "ok"
	}
	return c.JSON(fiber.Map{
		"status": "ready",
		"checks": fiber.Map{
			"api": "ok",
			"ai":  ai,
		},
	})
}
