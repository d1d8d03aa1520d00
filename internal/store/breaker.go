package store

import (
	"context"
	"errors"
	"time"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/models"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures WithBreaker
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	Interval            time.Duration
	Timeout             time.Duration
	// OnStateChange is called after every transition, e.g. to export the state
	OnStateChange func(name string, from, to gobreaker.State)
}

// BreakerStore wraps a Store with a circuit breaker. While the breaker is
// open every call fails fast with ErrUnavailable.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps s with a circuit breaker that trips after
// ConsecutiveFailures failed calls in a row. Context cancellation is not
// counted as a failure.
func WithBreaker(s Store, bs BreakerSettings) *BreakerStore {
	if bs.Name == "" {
		bs.Name = "store"
	}
	if bs.ConsecutiveFailures == 0 {
		bs.ConsecutiveFailures = 5
	}

	logger := logging.Global().With("component", "store.breaker", "breaker", bs.Name)
	st := gobreaker.Settings{
		Name:     bs.Name,
		Interval: bs.Interval,
		Timeout:  bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "from", from.String(), "to", to.String())
			if bs.OnStateChange != nil {
				bs.OnStateChange(name, from, to)
			}
		},
	}

	return &BreakerStore{next: s, cb: gobreaker.NewCircuitBreaker(st)}
}

// State returns the current breaker state
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

// Unwrap returns the wrapped store
func (b *BreakerStore) Unwrap() Store {
	return b.next
}

func (b *BreakerStore) run(fn func() (interface{}, error)) (interface{}, error) {
	v, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return v, err
}

func (b *BreakerStore) InsertReading(ctx context.Context, r *models.SensorReading) error {
	_, err := b.run(func() (interface{}, error) {
		return nil, b.next.InsertReading(ctx, r)
	})
	return err
}

func (b *BreakerStore) InsertDataset(ctx context.Context, rows []*models.DatasetReading) (int, error) {
	v, err := b.run(func() (interface{}, error) {
		return b.next.InsertDataset(ctx, rows)
	})
	n, _ := v.(int)
	return n, err
}

func (b *BreakerStore) ClearDataset(ctx context.Context) (int64, error) {
	v, err := b.run(func() (interface{}, error) {
		return b.next.ClearDataset(ctx)
	})
	n, _ := v.(int64)
	return n, err
}

func (b *BreakerStore) ListReadings(ctx context.Context, q Query) ([]*models.SensorReading, error) {
	v, err := b.run(func() (interface{}, error) {
		return b.next.ListReadings(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*models.SensorReading), nil
}

func (b *BreakerStore) ListDataset(ctx context.Context, q Query) ([]*models.DatasetReading, error) {
	v, err := b.run(func() (interface{}, error) {
		return b.next.ListDataset(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*models.DatasetReading), nil
}

func (b *BreakerStore) CountDataset(ctx context.Context) (int64, error) {
	v, err := b.run(func() (interface{}, error) {
		return b.next.CountDataset(ctx)
	})
	n, _ := v.(int64)
	return n, err
}

func (b *BreakerStore) Ping(ctx context.Context) error {
	_, err := b.run(func() (interface{}, error) {
		return nil, b.next.Ping(ctx)
	})
	return err
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}
