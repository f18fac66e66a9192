package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"stocktracker/internal/chart"
	"stocktracker/internal/models"
)

// marketService is the slice of the market data service the stock handler
// needs; narrowed to an interface so tests can stub it.
type marketService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetHistory(ctx context.Context, symbol, rng string) ([]models.Candle, error)
	GetFundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
	ClearCaches()
}

type StockHandler struct {
	market marketService
}

func NewStockHandler(market marketService) *StockHandler {
	return &StockHandler{
		market: market,
	}
}

// GetStock handles GET /v1/stocks/:symbol
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	symbol, err := normalizeSymbol(c.Params("symbol"))
	if err != nil {
		return badRequest(c, "Invalid ticker symbol", err)
	}

	quote, err := h.market.GetQuote(ctx, symbol)
	if err != nil {
		return providerError(c, err)
	}

	detail := models.StockDetail{Quote: quote}

	// Fundamentals are best-effort: the panel shows N/A when missing
	if fund, err := h.market.GetFundamentals(ctx, symbol); err == nil {
		detail.Fundamentals = fund
	}

	return c.JSON(detail)
}

// GetHistory handles GET /v1/stocks/:symbol/history?range=1mo
func (h *StockHandler) GetHistory(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	symbol, rng, err := symbolAndRange(c)
	if err != nil {
		return badRequest(c, "Invalid request", err)
	}

	candles, err := h.market.GetHistory(ctx, symbol, rng)
	if err != nil {
		return providerError(c, err)
	}

	return c.JSON(fiber.Map{
		"symbol":  symbol,
		"range":   rng,
		"candles": candles,
	})
}

// GetChart handles GET /v1/stocks/:symbol/chart?range=1mo
func (h *StockHandler) GetChart(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	symbol, rng, err := symbolAndRange(c)
	if err != nil {
		return badRequest(c, "Invalid request", err)
	}

	candles, err := h.market.GetHistory(ctx, symbol, rng)
	if err != nil && !errors.Is(err, models.ErrProviderFailure) {
		return providerError(c, err)
	}

	// Provider failure renders as the chart's empty state, not a hard error
	return c.JSON(chart.Build(symbol, rng, candles))
}

// RefreshCache handles POST /v1/admin/refresh
func (h *StockHandler) RefreshCache(c *fiber.Ctx) error {
	h.market.ClearCaches()

	return c.JSON(fiber.Map{
		"message": "Caches cleared",
		"time":    time.Now(),
	})
}

func symbolAndRange(c *fiber.Ctx) (string, string, error) {
	symbol, err := normalizeSymbol(c.Params("symbol"))
	if err != nil {
		return "", "", err
	}

	rng := c.Query("range", models.DefaultRange)
	if !models.ValidRange(rng) {
		return "", "", models.ErrInvalidRange
	}

	return symbol, rng, nil
}

// normalizeSymbol upper-cases and validates a ticker. Validation is
// deliberately loose: the provider is the authority on what exists.
func normalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" || len(symbol) > 12 {
		return "", errors.New("ticker must be 1-12 characters")
	}
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '^', r == '=':
		default:
			return "", errors.New("ticker contains invalid characters")
		}
	}
	return symbol, nil
}
