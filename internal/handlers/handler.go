package handlers

import (
	"github.com/climadash/climadash/internal/analytics"
	"github.com/climadash/climadash/internal/cache"
	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/queue"
	"github.com/climadash/climadash/internal/services"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// Handler contains all HTTP handlers
type Handler struct {
	logger       *logging.Logger
	store        store.Store
	historyLimit int
	// Services
	sensorService    *services.SensorService
	historyService   *services.HistoryService
	analyticsService *services.AnalyticsService
}

// New creates a new handler instance. publisher may be nil, in which case
// posted readings are written straight to the store.
func New(logger *logging.Logger, s store.Store, publisher queue.Publisher,
	latest *cache.Latest, cfg config.Config, m *metrics.Metrics,
) *Handler {
	historyLimit := cfg.Ingest.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = utils.DefaultHistoryLimit
	}

	// Create services
	sensorService := services.NewSensorService(logger, latest, publisher, s, cfg.Queue.Subject, m)
	historyService := services.NewHistoryService(logger, s, cfg.Server.Location(), m)
	analyticsService := services.NewAnalyticsService(logger, s, services.AnalyticsConfig{
		Options: analytics.Options{
			ForecastSteps:       cfg.Analytics.ForecastSteps,
			MovingAverageWindow: cfg.Analytics.MovingAverageWindow,
		},
		IncludeRealtime: cfg.Analytics.IncludeRealtime,
	}, m)

	return &Handler{
		logger:           logger,
		store:            s,
		historyLimit:     historyLimit,
		sensorService:    sensorService,
		historyService:   historyService,
		analyticsService: analyticsService,
	}
}
