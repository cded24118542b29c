package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"podmatch/internal/handler"
	"podmatch/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analyze  *handler.AnalyzeHandler
	Engine   *handler.EngineHandler
	Guest    *handler.GuestHandler
	History  *handler.HistoryHandler
	Trending *handler.TrendingHandler
	Stats    *handler.StatsHandler
	Health   *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Dashboard and operational endpoints (before API group)
	app.Get("/", handler.Dashboard)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// One limiter per preset: alias routes share a budget.
	analyzeLimit := middleware.NewAnalyzeRateLimiter().Handler()
	searchLimit := middleware.NewSearchRateLimiter().Handler()
	readLimit := middleware.NewReadRateLimiter().Handler()

	// API routes
	api := app.Group("/api")

	// Analysis routes
	api.Post("/analyze-guest", h.Analyze.Analyze, analyzeLimit)
	api.Post("/analyze", h.Analyze.Analyze, analyzeLimit)

	// Guest routes
	api.Get("/trending-guests", h.Guest.List, readLimit)
	api.Get("/guests", h.Guest.List, readLimit)
	api.Get("/search-guests", h.Guest.Search, searchLimit)
	api.Get("/guests/search", h.Guest.Search, searchLimit)

	// History routes
	api.Get("/analysis-history/:channelId", h.History.ByChannel, readLimit)
	api.Get("/analyses/:channelId", h.History.ByChannel, readLimit)
	api.Get("/analyses", h.History.Recent, readLimit)

	// Trending topic routes
	api.Get("/trending-topics", h.Trending.List, readLimit)
	api.Post("/trending-topics/refresh", h.Trending.Refresh, analyzeLimit)

	// Engine routes
	api.Post("/ai/analyze", h.Engine.Analyze, analyzeLimit)
	api.Get("/ai/status", h.Engine.Status, readLimit)
	api.Get("/ai/health", h.Engine.Health, readLimit)

	// Stats routes
	api.Get("/stats", h.Stats.GetStats, readLimit)
}
