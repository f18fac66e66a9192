package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"stocktracker/internal/config"
	"stocktracker/internal/handlers"
	"stocktracker/internal/metrics"
	"stocktracker/internal/recorder"
	"stocktracker/internal/refresher"
	"stocktracker/internal/services"
	"stocktracker/web"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Optional local quote history
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.SQLitePath != "" {
		sqliteRec, err := recorder.NewSQLiteRecorder(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to open quote recorder: %v", err)
		}
		rec = sqliteRec
	}
	defer rec.Close()

	// Initialize services
	cacheService := services.NewCacheService(cfg)
	defer cacheService.Close()

	marketDataService := services.NewMarketDataService(cfg, cacheService, rec)
	sessionStore := services.NewSessionStore(cfg.ChatSessionTTL)

	narrator, err := services.NewNarrator(cfg, marketDataService, sessionStore)
	if err != nil {
		log.Fatalf("Failed to initialize AI narrator: %v", err)
	}
	defer narrator.Close()

	// Watchlist cache warmer
	watchlist, err := config.LoadWatchlist(cfg.WatchlistPath)
	if err != nil {
		log.Fatalf("Failed to load watchlist: %v", err)
	}

	refreshCtx, cancelRefresh := context.WithCancel(context.Background())
	defer cancelRefresh()

	watchRefresher := refresher.New(refreshCtx, marketDataService, watchlist)
	if err := watchRefresher.Start(cfg.RefreshCron); err != nil {
		log.Fatalf("Failed to start watchlist refresher: %v", err)
	}

	// Initialize handlers
	stockHandler := handlers.NewStockHandler(marketDataService)
	aiHandler := handlers.NewAIHandler(narrator)
	healthHandler := handlers.NewHealthHandler(narrator.Enabled())

	// Create Fiber app
	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "StockTracker",
		AppName:       "StockTracker v1.0",
		ReadTimeout:   time.Second * 10,
		WriteTimeout:  time.Second * 90,
		BodyLimit:     1 * 1024 * 1024, // 1MB
		ErrorHandler:  handlers.CustomErrorHandler,
	})

	// Middleware stack
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       3600,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	}))

	// Routes
	app.Get("/", web.Dashboard)
	app.Get("/health", healthHandler.Health)
	app.Get("/health/ready", healthHandler.Ready)
	app.Get("/metrics", metrics.Handler())

	v1 := app.Group("/v1")
	v1.Get("/stocks/:symbol", stockHandler.GetStock)
	v1.Get("/stocks/:symbol/history", stockHandler.GetHistory)
	v1.Get("/stocks/:symbol/chart", stockHandler.GetChart)
	v1.Post("/stocks/:symbol/analyze", aiHandler.Analyze)
	v1.Post("/chat", aiHandler.Chat)
	v1.Delete("/chat/:sessionId", aiHandler.ClearChat)
	v1.Post("/admin/refresh", stockHandler.RefreshCache)

	// Start server
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("StockTracker started on port %s", cfg.Port)
	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Default ticker: %s", cfg.DefaultTicker)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gracefully...")
	cancelRefresh()
	watchRefresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server shutdown complete")
}
