package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/utils"
	"github.com/redis/go-redis/v9"
)

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
	Stream   string // stream prefix (default: "climadash")
	Group    string // consumer group (default: "climadash-ingest")
	Consumer string // consumer name (default: hostname)
}

// RedisQueue implements Queue interface using Redis Streams with a
// consumer group. Failed messages stay pending and are claimed again.
type RedisQueue struct {
	client        *redis.Client
	config        RedisConfig
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	logger        *logging.Logger
	mu            sync.Mutex
}

func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{Addr: cfg.URL}
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), utils.QueueConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.Stream == "" {
		cfg.Stream = "climadash"
	}
	if cfg.Group == "" {
		cfg.Group = "climadash-ingest"
	}
	if cfg.Consumer == "" {
		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "consumer-1"
		}
		cfg.Consumer = hostname
	}

	return &RedisQueue{
		client:        client,
		config:        cfg,
		subscriptions: make(map[string]context.CancelFunc),
		logger:        logging.Global().With("component", "queue.redis"),
	}, nil
}

// streamName converts a subject to a Redis stream name
func (q *RedisQueue) streamName(subject string) string {
	return q.config.Stream + ":" + subject
}

// Publish appends a message to the subject's stream
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	stream := q.streamName(subject)
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: 100000,
		Approx: true,
		Values: map[string]interface{}{"data": data},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", stream, err)
	}
	return nil
}

// Subscribe joins the consumer group and starts reading in the background
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	stream := q.streamName(subject)
	ctx, cancel := context.WithCancel(context.Background())

	err := q.client.XGroupCreateMkStream(ctx, stream, q.config.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		cancel()
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	q.subscriptions[subject] = cancel
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.readStream(ctx, stream, handler)
	}()
	return nil
}

// readStream first replays this consumer's pending entries ("0"), then reads
// new ones (">"). After a failed handler it goes back to the pending list.
func (q *RedisQueue) readStream(ctx context.Context, stream string, handler MessageHandler) {
	cursor := "0"
	for ctx.Err() == nil {
		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.config.Group,
			Consumer: q.config.Consumer,
			Streams:  []string{stream, cursor},
			Count:    100,
			Block:    2 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			q.logger.Warn("Failed to read stream", "stream", stream, "error", err)
			sleepCtx(ctx, time.Second)
			continue
		}

		delivered := 0
		failed := false
		for _, s := range streams {
			for _, msg := range s.Messages {
				delivered++
				if q.handle(ctx, stream, msg, handler) != nil {
					failed = true
				}
			}
		}

		switch {
		case failed:
			cursor = "0"
			sleepCtx(ctx, time.Second)
		case cursor == "0" && delivered == 0:
			cursor = ">"
		}
	}
}

func (q *RedisQueue) handle(ctx context.Context, stream string, msg redis.XMessage, handler MessageHandler) error {
	data, ok := msg.Values["data"].(string)
	if !ok {
		q.client.XAck(ctx, stream, q.config.Group, msg.ID)
		return nil
	}

	err := handler(ctx, []byte(data))
	if err != nil && !IsPermanent(err) {
		q.logger.Warn("Message handler failed, will retry", "stream", stream, "id", msg.ID, "error", err)
		return err
	}
	if err != nil {
		q.logger.Warn("Dropping message", "stream", stream, "id", msg.ID, "error", err)
	}

	q.client.XAck(ctx, stream, q.config.Group, msg.ID)
	return nil
}

// Unsubscribe stops reading a subject
func (q *RedisQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Close stops all readers and closes the client
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return q.client.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
