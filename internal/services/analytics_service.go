package services

import (
	"context"
	"errors"
	"time"

	"github.com/climadash/climadash/internal/analytics"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/store"
)

// NoDatasetMessage accompanies a null analytics report
const NoDatasetMessage = "No dataset data available for analytics"

// AnalyticsConfig tunes AnalyticsService
type AnalyticsConfig struct {
	Options         analytics.Options
	IncludeRealtime bool
}

// AnalyticsService runs the analytics engine over stored readings
type AnalyticsService struct {
	logger  *logging.Logger
	store   store.Store
	cfg     AnalyticsConfig
	metrics *metrics.Metrics
}

// NewAnalyticsService creates an AnalyticsService
func NewAnalyticsService(logger *logging.Logger, s store.Store, cfg AnalyticsConfig, m *metrics.Metrics) *AnalyticsService {
	return &AnalyticsService{
		logger:  logger,
		store:   s,
		cfg:     cfg,
		metrics: m,
	}
}

type observation struct {
	at          time.Time
	temperature float64
	humidity    float64
	fanSpeed    float64
}

// Compute builds the analytics report over every dataset bucket, oldest
// first, plus realtime readings when configured. No data yields a
// successful response with a nil report.
func (s *AnalyticsService) Compute(ctx context.Context) (*models.AnalyticsResponse, error) {
	start := time.Now()

	rows, err := s.store.ListDataset(ctx, store.All())
	if err != nil {
		return nil, s.fail("list_dataset", err, start)
	}

	obs := make([]observation, 0, len(rows))
	for _, r := range rows {
		obs = append(obs, observation{
			at:          r.Datetime,
			temperature: r.Temperature,
			humidity:    r.Humidity,
			fanSpeed:    float64(r.Speed),
		})
	}

	realtimeCount := 0
	if s.cfg.IncludeRealtime {
		readings, err := s.store.ListReadings(ctx, store.All())
		if err != nil {
			return nil, s.fail("list_readings", err, start)
		}
		realtime := make([]observation, 0, len(readings))
		for _, r := range readings {
			realtime = append(realtime, observation{
				at:          r.Time(),
				temperature: r.Temperature,
				humidity:    r.Humidity,
				fanSpeed:    float64(r.FanSpeedPercent()),
			})
		}
		realtimeCount = len(realtime)
		obs = mergeByTime(obs, realtime)
	}

	report, err := analytics.Compute(buildInput(obs, len(rows), realtimeCount), s.cfg.Options)
	if errors.Is(err, analytics.ErrNoData) {
		s.metrics.AnalyticsRun(metrics.ResultNoData, time.Since(start))
		return &models.AnalyticsResponse{Success: true, Message: NoDatasetMessage}, nil
	}
	if err != nil {
		s.metrics.AnalyticsRun(metrics.ResultError, time.Since(start))
		s.logger.Error("Analytics computation failed", "error", err)
		return nil, NewServiceError(CodeAnalyticsFailed, "Failed to calculate analytics")
	}

	elapsed := time.Since(start)
	s.metrics.AnalyticsRun(metrics.ResultOK, elapsed)
	s.logger.Debug("Analytics computed",
		"dataset", len(rows),
		"realtime", realtimeCount,
		"latency_ms", elapsed.Milliseconds(),
	)

	return &models.AnalyticsResponse{Success: true, Analytics: report}, nil
}

func (s *AnalyticsService) fail(op string, err error, start time.Time) *ServiceError {
	s.metrics.StoreError(op)
	s.metrics.AnalyticsRun(metrics.ResultError, time.Since(start))
	s.logger.Error("Analytics query failed", "operation", op, "error", err)
	return storeServiceError(err)
}

func buildInput(obs []observation, datasetCount, realtimeCount int) analytics.Input {
	in := analytics.Input{
		Temperature:   make([]float64, len(obs)),
		Humidity:      make([]float64, len(obs)),
		FanSpeed:      make([]float64, len(obs)),
		DatasetCount:  datasetCount,
		RealtimeCount: realtimeCount,
	}
	for i, o := range obs {
		in.Temperature[i] = o.temperature
		in.Humidity[i] = o.humidity
		in.FanSpeed[i] = o.fanSpeed
	}
	if n := len(obs); n > 0 {
		in.Latest = analytics.Pair{Temperature: obs[n-1].temperature, Humidity: obs[n-1].humidity}
	}
	return in
}

// mergeByTime merges two time-ordered slices; a wins ties
func mergeByTime(a, b []observation) []observation {
	out := make([]observation, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if b[j].at.Before(a[i].at) {
			out = append(out, b[j])
			j++
		} else {
			out = append(out, a[i])
			i++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
