package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/climadash/climadash/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestLatest_Initial(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewLatest(start)

	got := l.Get()
	assert.Zero(t, got.Temperature)
	assert.Zero(t, got.Humidity)
	assert.Equal(t, "OFF", got.FanSpeed)
	assert.Equal(t, start, got.Timestamp)
}

func TestLatest_SetGet(t *testing.T) {
	l := NewLatest(time.Now())
	r := models.SensorReading{Temperature: 25, Humidity: 55, FanSpeed: "MID"}
	l.Set(r)

	got := l.Get()
	assert.Equal(t, r, got)

	got.Temperature = 99
	assert.Equal(t, 25.0, l.Get().Temperature)
}

func TestLatest_ConcurrentReaders(t *testing.T) {
	l := NewLatest(time.Now())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				_ = l.Get()
			}
		}()
	}
	for j := 0; j < 1000; j++ {
		l.Set(models.SensorReading{Temperature: float64(j)})
	}
	wg.Wait()

	assert.Equal(t, 999.0, l.Get().Temperature)
}
