package services

import (
	"context"
	"time"

	"github.com/climadash/climadash/internal/cache"
	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/queue"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
)

// SensorService records realtime readings posted by devices
type SensorService struct {
	logger    *logging.Logger
	latest    *cache.Latest
	publisher queue.Publisher
	store     store.Store
	subject   string
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewSensorService creates a SensorService. Readings are published to
// publisher when it is non-nil, otherwise written straight to s.
func NewSensorService(
	logger *logging.Logger,
	latest *cache.Latest,
	publisher queue.Publisher,
	s store.Store,
	subject string,
	m *metrics.Metrics,
) *SensorService {
	if subject == "" {
		subject = utils.RealtimeSubject
	}
	return &SensorService{
		logger:    logger,
		latest:    latest,
		publisher: publisher,
		store:     s,
		subject:   subject,
		metrics:   m,
		now:       time.Now,
	}
}

// Record validates a posted reading, makes it the latest reading and hands
// it on for storage. Storage failures are logged, not returned.
func (s *SensorService) Record(ctx context.Context, req *models.SensorDataRequest) (*models.SensorReading, error) {
	temperature, ok := utils.ParseFloat(req.Temperature)
	if !ok {
		s.metrics.ReadingRejected("invalid_temperature")
		return nil, NewServiceErrorWithDetails(CodeInvalidTemperature, "Invalid temperature value", map[string]interface{}{
			"temperature": req.Temperature,
		})
	}

	fanSpeed, ok := s.fanSpeed(req)
	if !ok {
		s.metrics.ReadingRejected("invalid_fan_speed")
		return nil, NewServiceErrorWithDetails(CodeInvalidFanSpeed, "fanSpeed must be one of: OFF, LOW, MID, MAX", map[string]interface{}{
			"fanSpeed": req.FanSpeed,
		})
	}

	now := s.now()
	reading := &models.SensorReading{
		Temperature: temperature,
		Humidity:    utils.ParseFloatOr(req.Humidity, 0),
		FanSpeed:    fanSpeed,
		Timestamp:   now,
		CreatedAt:   now,
	}
	s.latest.Set(*reading)

	s.persist(ctx, reading)
	return reading, nil
}

func (s *SensorService) fanSpeed(req *models.SensorDataRequest) (string, bool) {
	if req.FanSpeed == nil {
		return models.FanSpeedOff, true
	}
	name, isString := req.FanSpeed.(string)
	if !isString {
		return "", false
	}
	return models.ParseFanSpeed(name)
}

func (s *SensorService) persist(ctx context.Context, reading *models.SensorReading) {
	if s.publisher != nil {
		if err := queue.PublishJSON(ctx, s.publisher, s.subject, reading); err != nil {
			s.logger.Error("Failed to publish reading", "subject", s.subject, "error", err)
		}
		return
	}

	if s.store == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, utils.StoreWriteTimeout)
	defer cancel()

	if err := s.store.InsertReading(writeCtx, reading); err != nil {
		s.metrics.StoreError("insert_reading")
		s.logger.Error("Failed to store reading", "error", err)
		return
	}
	s.metrics.ReadingsIngested(utils.SourceRealtime, 1)
}

// Latest returns the most recent reading
func (s *SensorService) Latest() models.SensorReading {
	return s.latest.Get()
}
