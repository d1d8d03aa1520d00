package store

import (
	"context"
	"sync"
	"time"

	"github.com/climadash/climadash/internal/models"
)

// MemoryStore keeps readings in process memory. It is the default backend
// and the one used by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	readings *orderedSlice[*models.SensorReading]
	dataset  *orderedSlice[*models.DatasetReading]
	closed   bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		readings: newOrderedSlice((*models.SensorReading).Time),
		dataset: newOrderedSlice(func(r *models.DatasetReading) time.Time {
			return r.Datetime
		}),
	}
}

func (m *MemoryStore) InsertReading(ctx context.Context, r *models.SensorReading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	c := *r
	m.readings.Add(&c)
	return nil
}

func (m *MemoryStore) InsertDataset(ctx context.Context, rows []*models.DatasetReading) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}

	for _, r := range rows {
		c := *r
		m.dataset.Add(&c)
	}
	return len(rows), nil
}

func (m *MemoryStore) ClearDataset(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}

	return int64(m.dataset.Reset()), nil
}

func (m *MemoryStore) ListReadings(ctx context.Context, q Query) ([]*models.SensorReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	window := m.readings.Window(q.Order, q.Limit)
	out := make([]*models.SensorReading, len(window))
	for i, r := range window {
		c := *r
		out[i] = &c
	}
	return out, nil
}

func (m *MemoryStore) ListDataset(ctx context.Context, q Query) ([]*models.DatasetReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	window := m.dataset.Window(q.Order, q.Limit)
	out := make([]*models.DatasetReading, len(window))
	for i, r := range window {
		c := *r
		out[i] = &c
	}
	return out, nil
}

func (m *MemoryStore) CountDataset(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return int64(m.dataset.Len()), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
