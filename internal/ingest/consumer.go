package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/metrics"
	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/queue"
	"github.com/climadash/climadash/internal/store"
	"github.com/climadash/climadash/internal/utils"
)

// Consumer writes realtime readings published by the sensor service to the
// store.
type Consumer struct {
	subscriber queue.Subscriber
	store      store.Store
	subject    string
	logger     *logging.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewConsumer creates a consumer for subject. m may be nil.
func NewConsumer(sub queue.Subscriber, s store.Store, subject string, logger *logging.Logger, m *metrics.Metrics) *Consumer {
	if subject == "" {
		subject = utils.RealtimeSubject
	}
	if logger == nil {
		logger = logging.Global()
	}
	return &Consumer{
		subscriber: sub,
		store:      s,
		subject:    subject,
		logger:     logger.With("component", "ingest-consumer", "subject", subject),
		metrics:    m,
		now:        time.Now,
	}
}

// Start subscribes to the subject
func (c *Consumer) Start() error {
	if err := c.subscriber.Subscribe(c.subject, c.Handle); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.subject, err)
	}
	c.logger.Info("Ingest consumer started")
	return nil
}

// Stop unsubscribes from the subject
func (c *Consumer) Stop() error {
	if err := c.subscriber.Unsubscribe(c.subject); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", c.subject, err)
	}
	c.logger.Info("Ingest consumer stopped")
	return nil
}

// Handle decodes one message and stores it. Undecodable messages are
// dropped; store failures are returned for redelivery.
func (c *Consumer) Handle(ctx context.Context, data []byte) error {
	var r models.SensorReading
	if err := json.Unmarshal(data, &r); err != nil {
		c.metrics.ReadingRejected("malformed_message")
		c.logger.Warn("Dropping malformed reading", "error", err, "size", len(data))
		return queue.Permanent(fmt.Errorf("failed to decode reading: %w", err))
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = c.now()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = r.CreatedAt
	}

	writeCtx, cancel := context.WithTimeout(ctx, utils.StoreWriteTimeout)
	defer cancel()

	if err := c.store.InsertReading(writeCtx, &r); err != nil {
		c.metrics.StoreError("insert_reading")
		c.logger.Error("Failed to store reading", "error", err)
		return fmt.Errorf("failed to store reading: %w", err)
	}

	c.metrics.ReadingsIngested(utils.SourceRealtime, 1)
	c.logger.Debug("Stored reading",
		"temperature", r.Temperature,
		"humidity", r.Humidity,
		"fan_speed", r.FanSpeed,
	)
	return nil
}
