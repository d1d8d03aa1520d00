package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/climadash/climadash/internal/models"
	"github.com/climadash/climadash/internal/store"
)

var base = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

// recordingPublisher keeps published messages in memory
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	messages [][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	p.messages = append(p.messages, data)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// unavailableStore reports every listing as unavailable
type unavailableStore struct {
	*store.MemoryStore
}

func (unavailableStore) ListReadings(context.Context, store.Query) ([]*models.SensorReading, error) {
	return nil, store.ErrUnavailable
}

func (unavailableStore) ListDataset(context.Context, store.Query) ([]*models.DatasetReading, error) {
	return nil, store.ErrUnavailable
}

// brokenStore fails every listing with a backend error
type brokenStore struct {
	*store.MemoryStore
}

func (brokenStore) ListDataset(context.Context, store.Query) ([]*models.DatasetReading, error) {
	return nil, errors.New("connection reset")
}

func seedReadings(s store.Store, temps ...float64) {
	for i, temp := range temps {
		at := base.Add(time.Duration(i) * time.Minute)
		_ = s.InsertReading(context.Background(), &models.SensorReading{
			Temperature: temp,
			Humidity:    50,
			FanSpeed:    models.FanSpeedLow,
			Timestamp:   at,
			CreatedAt:   at,
		})
	}
}

func seedDataset(s store.Store, hours ...int) {
	rows := make([]*models.DatasetReading, 0, len(hours))
	for _, h := range hours {
		rows = append(rows, &models.DatasetReading{
			RoomType:    "Bedroom",
			FanNumber:   "1",
			Datetime:    base.Add(time.Duration(h) * time.Hour),
			Temperature: 25 + float64(h),
			Humidity:    60 - float64(h),
			Speed:       (h + 4) % 4,
			Source:      "dataset",
		})
	}
	_, _ = s.InsertDataset(context.Background(), rows)
}
