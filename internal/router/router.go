package router

import (
	"time"

	"github.com/climadash/climadash/internal/cache"
	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/handlers"
	"github.com/climadash/climadash/internal/ingest"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/middleware"
	"github.com/climadash/climadash/internal/queue"
	"github.com/climadash/climadash/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the components the HTTP API is built on
type Dependencies struct {
	Logger *logging.Logger
	Store  store.Store
	// Publisher carries posted readings to the ingest consumer; nil writes
	// them straight to Store
	Publisher queue.Publisher
	Latest    *cache.Latest
	Metrics   *metrics.Metrics
	Limiter   *ingest.RateLimiter
}

// Setup configures all routes and middlewares
func Setup(app *fiber.App, deps Dependencies, cfg config.Config) *handlers.Handler {
	latest := deps.Latest
	if latest == nil {
		latest = cache.NewLatest(time.Now())
	}

	// Create handler instance
	h := handlers.New(deps.Logger, deps.Store, deps.Publisher, latest, cfg, deps.Metrics)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(deps.Logger, logging.DefaultMiddlewareConfig()))
	app.Use(middleware.Metrics(deps.Metrics))

	app.Get("/health", h.Health)
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		app.Get(cfg.Metrics.Path, deps.Metrics.Handler())
	}

	api := app.Group("/api")

	// Realtime readings
	api.Post("/sensor-data", middleware.RateLimit(deps.Limiter, deps.Logger), h.PostSensorData)
	api.Get("/sensor-data", h.GetSensorData)

	// Stored readings
	api.Get("/historical-data", h.GetHistoricalData)
	api.Get("/analytics", h.GetAnalytics)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(deps Dependencies, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Climadash",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(deps.Logger),
	})

	Setup(app, deps, cfg)

	return app
}
