package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/climadash/climadash/internal/logging"
	"github.com/climadash/climadash/internal/utils"
	"github.com/nats-io/nats.go"
)

// NATSQueue implements Queue interface using NATS JetStream
type NATSQueue struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	ownsConn      bool
	streams       sync.Map // subjects with a known stream
	subscriptions map[string]*nats.Subscription
	logger        *logging.Logger
	mu            sync.Mutex
}

// newNATSQueue connects to NATS and enables JetStream
func newNATSQueue(url string) (*NATSQueue, error) {
	conn, err := nats.Connect(url,
		nats.Name("climadash"),
		nats.Timeout(utils.QueueConnectTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	q.ownsConn = true
	return q, nil
}

// newNATSQueueWithConn wraps an existing connection; Close leaves it open
func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
		logger:        logging.Global().With("component", "queue.nats"),
	}, nil
}

// ensureStream creates the stream backing subject if it does not exist
func (q *NATSQueue) ensureStream(subject string) error {
	if _, ok := q.streams.Load(subject); ok {
		return nil
	}

	name := "climadash-" + sanitizeName(subject)
	if _, err := q.js.StreamInfo(name); err == nil {
		q.streams.Store(subject, struct{}{})
		return nil
	}

	_, err := q.js.AddStream(&nats.StreamConfig{
		Name:     name,
		Subjects: []string{subject},
		Storage:  nats.FileStorage,
		MaxAge:   24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream for subject %s: %w", subject, err)
	}
	q.streams.Store(subject, struct{}{})
	return nil
}

// Publish publishes a message and waits for the JetStream ack
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := q.ensureStream(subject); err != nil {
		return err
	}
	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// Subscribe subscribes with a durable JetStream consumer and manual acks
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	if err := q.ensureStream(subject); err != nil {
		return err
	}

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		err := handler(context.Background(), msg.Data)
		switch {
		case err == nil:
			_ = msg.Ack()
		case IsPermanent(err):
			q.logger.Warn("Dropping message", "subject", subject, "error", err)
			_ = msg.Term()
		default:
			q.logger.Warn("Message handler failed, redelivering", "subject", subject, "error", err)
			_ = msg.NakWithDelay(time.Second)
		}
	},
		nats.Durable("ingest-"+sanitizeName(subject)),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	q.subscriptions[subject] = sub
	return nil
}

// Unsubscribe drains the subscription; the durable consumer is kept
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	delete(q.subscriptions, subject)

	if err := sub.Drain(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}
	return nil
}

// Close drains all subscriptions and closes an owned connection
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		if err := sub.Drain(); err != nil {
			q.logger.Warn("Failed to drain subscription", "subject", subject, "error", err)
		}
		delete(q.subscriptions, subject)
	}

	if q.ownsConn {
		q.conn.Close()
	}
	return nil
}

// sanitizeName replaces characters not allowed in stream and consumer names
// (anything but A-Z, a-z, 0-9, dash and underscore) with underscores
func sanitizeName(subject string) string {
	result := make([]byte, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result[i] = c
		} else {
			result[i] = '_'
		}
	}
	return string(result)
}
