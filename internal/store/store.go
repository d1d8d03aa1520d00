// Package store persists realtime sensor readings and the hourly dataset
// buckets built by the dataset loader.
//
// Readings are ordered by insertion time (createdAt), dataset buckets by
// their datetime. Backends: memory, redis and mongo; see New.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/models"
	"github.com/sony/gobreaker"
)

var (
	// ErrUnavailable is returned while the store circuit breaker is open.
	ErrUnavailable = errors.New("store unavailable")

	// ErrClosed is returned by a store used after Close.
	ErrClosed = errors.New("store closed")
)

// Order is the sort direction of a listing
type Order int

const (
	Ascending Order = iota
	Descending
)

// Query selects a window of a collection. Limit 0 means everything.
type Query struct {
	Order Order
	Limit int
}

// Newest returns a descending query limited to n items.
func Newest(n int) Query {
	return Query{Order: Descending, Limit: n}
}

// All returns an ascending query over the whole collection.
func All() Query {
	return Query{Order: Ascending}
}

// Store is the reading persistence interface.
type Store interface {
	// InsertReading stores one realtime reading
	InsertReading(ctx context.Context, r *models.SensorReading) error

	// InsertDataset stores dataset buckets and returns how many were written
	InsertDataset(ctx context.Context, rows []*models.DatasetReading) (int, error)

	// ClearDataset removes every dataset bucket and returns how many were removed
	ClearDataset(ctx context.Context) (int64, error)

	// ListReadings returns realtime readings ordered by insertion time
	ListReadings(ctx context.Context, q Query) ([]*models.SensorReading, error)

	// ListDataset returns dataset buckets ordered by datetime
	ListDataset(ctx context.Context, q Query) ([]*models.DatasetReading, error)

	// CountDataset returns the number of stored dataset buckets
	CountDataset(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

// New creates a store for the configured backend.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg.Redis)
	case "mongo":
		return NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

// Open creates the configured store and, when enabled, wraps it in a circuit
// breaker reporting transitions to onStateChange (which may be nil).
func Open(ctx context.Context, cfg config.StoreConfig, onStateChange func(name string, from, to gobreaker.State)) (Store, error) {
	s, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.Breaker.Enabled {
		return s, nil
	}
	name := strings.ToLower(cfg.Type)
	if name == "" {
		name = "memory"
	}
	return WithBreaker(s, BreakerSettings{
		Name:                "store-" + name,
		ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		Interval:            cfg.Breaker.Interval,
		Timeout:             cfg.Breaker.Timeout,
		OnStateChange:       onStateChange,
	}), nil
}
