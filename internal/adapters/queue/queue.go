// Package queue defines the contract for handing raw input notifications
// from the OS callback path to the capture collector.
//
// The OS hook delivers notifications on its own thread; the bounded queue
// decouples that producer from the single collector that owns the
// recording sequence, so the callback path never blocks and never touches
// shared mutable state.
package queue

import (
	"context"
	"sync"

	"github.com/iam74k4/eventplayback/internal/domain/model"
	"github.com/iam74k4/eventplayback/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultCapacity = 4096
)

// Notification is the payload type flowing through the queue: a captured
// input event already stamped with its session-relative timestamp on the
// callback path.
type Notification = model.Event

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a notification to the queue.
	// Returns false if the queue is full or closed and the notification
	// was dropped.
	Enqueue(ctx context.Context, n Notification) bool

	// Dequeue returns the channel notifications arrive on. The channel
	// is closed when the queue is closed; buffered notifications remain
	// readable after Close so the collector can drain them.
	Dequeue() <-chan Notification

	// Len returns the current number of queued notifications.
	Len() int

	// Close shuts down the queue. After closing, no new notifications
	// can be enqueued.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	notifications chan Notification
	capacity      int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.notifications = make(chan Notification, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	metrics.UpdateQueueUtilization(0.0)

	return q
}

// Enqueue adds a notification to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, n Notification) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordEventDropped()
		return false
	}

	select {
	case q.notifications <- n:
		size := len(q.notifications)
		metrics.UpdateQueueSize(size)
		metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
		return true
	case <-ctx.Done():
		metrics.RecordEventDropped()
		return false
	default:
		// Queue full. Dropping one notification is preferable to
		// blocking the OS callback thread.
		metrics.RecordEventDropped()
		return false
	}
}

// Dequeue returns the channel notifications arrive on.
func (q *InMemoryQueue) Dequeue() <-chan Notification {
	return q.notifications
}

// Len returns the current number of queued notifications.
func (q *InMemoryQueue) Len() int {
	return len(q.notifications)
}

// Close shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.notifications)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
