package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/climadash/climadash/internal/logging"
)

const memoryChannelCapacity = 10000

// memoryMaxDeliver bounds redelivery attempts of a failing message
const memoryMaxDeliver = 3

// MemoryQueue implements Queue using in-process buffered channels. Used
// when the dashboard runs as a single process and in tests.
type MemoryQueue struct {
	channels      map[string]chan []byte
	subscriptions map[string]context.CancelFunc
	wg            sync.WaitGroup
	logger        *logging.Logger
	mu            sync.Mutex
	closed        bool
}

func newMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		channels:      make(map[string]chan []byte),
		subscriptions: make(map[string]context.CancelFunc),
		logger:        logging.Global().With("component", "queue.memory"),
	}
}

// channel returns the subject's channel, creating it. Caller holds mu.
func (q *MemoryQueue) channel(subject string) chan []byte {
	if ch, exists := q.channels[subject]; exists {
		return ch
	}
	ch := make(chan []byte, memoryChannelCapacity)
	q.channels[subject] = ch
	return ch
}

// Publish copies data onto the subject's channel. It never blocks: a full
// channel is an error.
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("queue closed")
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	select {
	case q.channel(subject) <- dataCopy:
		return nil
	default:
		return fmt.Errorf("channel full for subject: %s", subject)
	}
}

// Subscribe starts one consumer goroutine for the subject
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("queue closed")
	}
	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ch := q.channel(subject)
	ctx, cancel := context.WithCancel(context.Background())
	q.subscriptions[subject] = cancel

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}
				q.deliver(ctx, subject, data, handler)
			}
		}
	}()

	return nil
}

func (q *MemoryQueue) deliver(ctx context.Context, subject string, data []byte, handler MessageHandler) {
	var err error
	for attempt := 1; attempt <= memoryMaxDeliver; attempt++ {
		err = handler(ctx, data)
		if err == nil || IsPermanent(err) || ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		q.logger.Warn("Dropping message", "subject", subject, "error", err)
	}
}

// Unsubscribe unsubscribes from a channel
func (q *MemoryQueue) Unsubscribe(subject string) error {
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

// Close stops all consumers and waits for them to return
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	q.wg.Wait()
	return nil
}

// Pending returns the number of queued messages for a subject
func (q *MemoryQueue) Pending(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ch, exists := q.channels[subject]; exists {
		return len(ch)
	}
	return 0
}
