package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestNATS starts an embedded JetStream-enabled server
func setupTestNATS(t *testing.T) string {
	t.Helper()
	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random port
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	ns, err := server.NewServer(opts)
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func TestNATSQueue_PublishAndSubscribe(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	var mu sync.Mutex
	var got []string
	require.NoError(t, q.Subscribe("readings.realtime", func(_ context.Context, data []byte) error {
		mu.Lock()
		got = append(got, string(data))
		mu.Unlock()
		return nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, q.Publish(ctx, "readings.realtime", []byte(msg)))
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 3
	}, 5*time.Second)
}

func TestNATSQueue_PublishBeforeSubscribeIsReplayed(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	require.NoError(t, q.Publish(context.Background(), "readings.realtime", []byte("early")))

	received := make(chan string, 1)
	require.NoError(t, q.Subscribe("readings.realtime", func(_ context.Context, data []byte) error {
		received <- string(data)
		return nil
	}))

	select {
	case msg := <-received:
		assert.Equal(t, "early", msg)
	case <-time.After(5 * time.Second):
		t.Fatal("stored message not replayed")
	}
}

func TestNATSQueue_RedeliversOnError(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	var calls atomic.Int32
	require.NoError(t, q.Subscribe("readings.realtime", func(context.Context, []byte) error {
		if calls.Add(1) == 1 {
			return errors.New("store down")
		}
		return nil
	}))
	require.NoError(t, q.Publish(context.Background(), "readings.realtime", []byte("x")))

	waitFor(t, func() bool { return calls.Load() >= 2 }, 5*time.Second)
}

func TestNATSQueue_SubscribeTwice(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url)
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	noop := func(context.Context, []byte) error { return nil }
	require.NoError(t, q.Subscribe("readings.realtime", noop))
	assert.Error(t, q.Subscribe("readings.realtime", noop))

	require.NoError(t, q.Unsubscribe("readings.realtime"))
	assert.Error(t, q.Unsubscribe("readings.realtime"))
}

func TestNATSQueue_WithConnLeavesConnOpen(t *testing.T) {
	url := setupTestNATS(t)

	conn, err := nats.Connect(url)
	require.NoError(t, err)
	defer conn.Close()

	q, err := newNATSQueueWithConn(conn)
	require.NoError(t, err)
	require.NoError(t, q.Close())

	assert.True(t, conn.IsConnected())
}

func TestNATSQueue_InvalidURL(t *testing.T) {
	_, err := newNATSQueue("nats://127.0.0.1:1")
	assert.Error(t, err)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "readings_realtime", sanitizeName("readings.realtime"))
	assert.Equal(t, "a_b-c_d", sanitizeName("a*b-c>d"))
}
