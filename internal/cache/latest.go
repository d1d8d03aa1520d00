// Package cache holds the most recent realtime reading for the
// GET /api/sensor-data endpoint.
package cache

import (
	"sync"
	"time"

	"github.com/climadash/climadash/internal/models"
)

// Latest is the single-writer holder of the newest realtime reading. The
// sensor service owns writes; any number of readers may call Get.
type Latest struct {
	mu      sync.RWMutex
	reading models.SensorReading
}

// NewLatest returns a cache holding the startup reading
// {0, 0, OFF, startedAt}.
func NewLatest(startedAt time.Time) *Latest {
	return &Latest{
		reading: models.SensorReading{
			FanSpeed:  models.FanSpeedOff,
			Timestamp: startedAt,
		},
	}
}

// Set replaces the cached reading
func (l *Latest) Set(r models.SensorReading) {
	l.mu.Lock()
	l.reading = r
	l.mu.Unlock()
}

// Get returns a copy of the cached reading
func (l *Latest) Get() models.SensorReading {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reading
}
