package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/climadash/climadash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueue_DefaultsToMemory(t *testing.T) {
	q, err := NewQueue(config.QueueConfig{})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	_, ok := q.(*MemoryQueue)
	assert.True(t, ok, "expected *MemoryQueue, got %T", q)
}

func TestNewQueue_UnsupportedType(t *testing.T) {
	for _, typ := range []string{"sqs", "none"} {
		_, err := NewQueue(config.QueueConfig{Type: typ})
		assert.Error(t, err, typ)
	}
}

func TestNewQueue_KafkaWithoutBrokers(t *testing.T) {
	_, err := NewQueue(config.QueueConfig{Type: "kafka"})
	assert.Error(t, err)
}

func TestNewQueue_KafkaDefaults(t *testing.T) {
	q, err := newKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	assert.Equal(t, "climadash-ingest", q.config.GroupID)
	assert.Equal(t, 3, q.config.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, q.config.BatchTimeout)

	w := q.writer("readings.realtime")
	assert.Same(t, w, q.writer("readings.realtime"))
}

func TestPermanent(t *testing.T) {
	base := errors.New("bad json")
	err := Permanent(base)

	assert.True(t, IsPermanent(err))
	assert.True(t, IsPermanent(fmt.Errorf("wrapped: %w", err)))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "bad json", err.Error())

	assert.False(t, IsPermanent(base))
	assert.Nil(t, Permanent(nil))
}

func TestPublishJSON(t *testing.T) {
	q := newMemoryQueue()
	defer func() { _ = q.Close() }()

	received := make(chan map[string]interface{}, 1)
	require.NoError(t, q.Subscribe("s", func(_ context.Context, data []byte) error {
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err != nil {
			return Permanent(err)
		}
		received <- m
		return nil
	}))

	require.NoError(t, PublishJSON(context.Background(), q, "s", map[string]interface{}{"temperature": 21.5}))

	select {
	case m := <-received:
		assert.Equal(t, 21.5, m["temperature"])
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}

	assert.Error(t, PublishJSON(context.Background(), q, "s", make(chan int)))
}
