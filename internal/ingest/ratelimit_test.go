package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Burst(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(1, 2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := NewRateLimiter(0, 0, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("client"))
	}

	var nilLimiter *RateLimiter
	assert.True(t, nilLimiter.Allow("client"))
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewRateLimiter(10, 10, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	now = now.Add(45 * time.Second)
	l.Allow("b")
	assert.Equal(t, 2, l.Clients())

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.Clients())
}

func TestRateLimiter_RunStops(t *testing.T) {
	l := NewRateLimiter(1, 1, time.Millisecond)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		l.Run(time.Millisecond, stop)
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after stop")
	}
}
