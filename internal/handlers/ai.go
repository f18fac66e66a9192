package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"stocktracker/internal/models"
)

// narratorService is the slice of the AI narrator the handler needs.
type narratorService interface {
	Analyze(ctx context.Context, symbol, mode string) (string, error)
	Chat(ctx context.Context, sessionID, symbol, question string) (string, string, error)
	ClearSession(id string)
}

type AIHandler struct {
	narrator narratorService
}

func NewAIHandler(narrator narratorService) *AIHandler {
	return &AIHandler{
		narrator: narrator,
	}
}

// Analyze handles POST /v1/stocks/:symbol/analyze
func (h *AIHandler) Analyze(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 60*time.Second)
	defer cancel()

	symbol, err := normalizeSymbol(c.Params("symbol"))
	if err != nil {
		return badRequest(c, "Invalid ticker symbol", err)
	}

	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	analysis, err := h.narrator.Analyze(ctx, symbol, req.Mode)
	if err != nil {
		return providerError(c, err)
	}

	return c.JSON(models.AnalyzeResponse{
		Symbol:      symbol,
		Mode:        req.Mode,
		Analysis:    analysis,
		GeneratedAt: time.Now(),
	})
}

// Chat handles POST /v1/chat
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 60*time.Second)
	defer cancel()

	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	symbol, err := normalizeSymbol(req.Symbol)
	if err != nil {
		return badRequest(c, "Invalid ticker symbol", err)
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Message is required",
			Code:  fiber.StatusBadRequest,
		})
	}

	sessionID, reply, err := h.narrator.Chat(ctx, req.SessionID, symbol, req.Message)
	if err != nil {
		return providerError(c, err)
	}

	return c.JSON(models.ChatResponse{
		SessionID: sessionID,
		Reply:     reply,
	})
}

// ClearChat handles DELETE /v1/chat/:sessionId
func (h *AIHandler) ClearChat(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Session ID is required",
			Code:  fiber.StatusBadRequest,
		})
	}

	h.narrator.ClearSession(sessionID)

	return c.JSON(fiber.Map{
		"message": "Chat history cleared",
	})
}
