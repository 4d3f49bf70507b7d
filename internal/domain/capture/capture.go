// Package capture turns system-wide input notifications into an ordered,
// timestamped event sequence.
//
// The OS hook produces payloads on its own thread. A single producer
// goroutine stamps each payload with the elapsed time since the session
// started and hands it to a bounded queue; a single collector goroutine
// owns the session sequence and applies the recording policy (mouse-move
// coalescing, hotkey exclusion). No two goroutines ever touch the
// sequence, so appends are race-free and sorted by construction.
package capture

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iam74k4/eventplayback/internal/adapters/queue"
	"github.com/iam74k4/eventplayback/internal/domain/model"
	"github.com/iam74k4/eventplayback/pkg/logger"
	"github.com/iam74k4/eventplayback/pkg/metrics"
)

// moveCoalesceInterval bounds sequence growth under high-frequency mouse
// movement: consecutive moves closer together than this are dropped. The
// threshold is a fixed policy constant, not data-dependent.
const moveCoalesceInterval = 20 * time.Millisecond

// defaultMacroName names macros produced by sessions the caller did not name.
const defaultMacroName = "New Macro"

// Source delivers raw input notifications from the operating system.
// Start acquires the global input hook; the returned channel closes when
// Stop releases it.
type Source interface {
	Start(ctx context.Context) (<-chan model.Payload, error)
	Stop() error
}

// session is the transient state of one recording. It exists only while
// recording and is converted into a finalized Macro on stop.
type session struct {
	id       string
	startAt  time.Time
	events   []model.Event
	queue    *queue.InMemoryQueue
	producer chan struct{}
	done     chan struct{}
}

// Engine records mouse and keyboard input events.
type Engine struct {
	source       Source
	queueSize    int
	moveInterval time.Duration
	excludedKeys map[string]struct{}
	macroName    string
	logger       logger.Logger

	mu      sync.Mutex
	current *session
	count   atomic.Int64
}

// NewEngine creates a capture engine reading from source.
func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source:       source,
		queueSize:    0, // queue default applies
		moveInterval: moveCoalesceInterval,
		excludedKeys: make(map[string]struct{}),
		macroName:    defaultMacroName,
		logger:       logger.Get().Named("capture"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start begins a new recording session. It fails with
// ErrAlreadyRecording if one is active and with ErrHookUnavailable if
// the OS input hook cannot be acquired; in the latter case no partial
// session is left behind.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		return ErrAlreadyRecording
	}

	notifications, err := e.source.Start(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHookUnavailable, err)
	}

	s := &session{
		id:       uuid.New().String(),
		startAt:  time.Now(),
		queue:    queue.NewInMemoryQueue(queue.WithCapacity(e.queueSize)),
		producer: make(chan struct{}),
		done:     make(chan struct{}),
	}
	e.current = s
	e.count.Store(0)

	go e.produce(ctx, s, notifications)
	go e.collect(ctx, s)

	metrics.RecordRecordingStarted()
	metrics.UpdateRecordingActive(true)
	e.logger.Info(ctx, "recording started", logger.String("session", s.id))
	return nil
}

// produce stamps each raw payload with the elapsed time since the
// session started and enqueues it. Stamping happens here, on the
// delivery path, so queue backlog never skews timestamps.
func (e *Engine) produce(ctx context.Context, s *session, notifications <-chan model.Payload) {
	defer close(s.producer)
	defer func() {
		// Producer is the only writer; closing lets the collector drain.
		_ = s.queue.Close()
	}()

	for p := range notifications {
		elapsed := time.Since(s.startAt).Seconds()
		ev := model.Event{Timestamp: elapsed, Payload: p}
		if !s.queue.Enqueue(ctx, ev) {
			e.logger.Warn(ctx, "capture queue full, notification dropped",
				logger.String("session", s.id),
				logger.String("kind", string(p.Kind())),
			)
		}
	}
}

// collect owns the session sequence: it drains the queue, applies the
// recording policy and appends in arrival order.
func (e *Engine) collect(ctx context.Context, s *session) {
	defer close(s.done)

	lastMove := -e.moveInterval.Seconds()
	for ev := range s.queue.Dequeue() {
		switch p := ev.Payload.(type) {
		case model.MouseMove:
			if ev.Timestamp-lastMove < e.moveInterval.Seconds() {
				metrics.RecordEventCoalesced()
				continue
			}
			lastMove = ev.Timestamp
		case model.KeyDown:
			if _, excluded := e.excludedKeys[p.Key]; excluded {
				continue
			}
		case model.KeyUp:
			if _, excluded := e.excludedKeys[p.Key]; excluded {
				continue
			}
		case model.MouseDown, model.MouseUp, model.MouseScroll:
			// Recorded as-is.
		default:
			// A malformed notification costs one event, not the session.
			e.logger.Warn(ctx, "skipping unknown notification",
				logger.String("session", s.id),
				logger.Any("payload", ev.Payload),
			)
			continue
		}

		s.events = append(s.events, ev)
		e.count.Add(1)
		metrics.RecordEventCaptured(string(ev.Payload.Kind()))
	}
}

// Stop ends the active session and returns the finalized macro. The
// sequence is already timestamp-sorted by construction since capture is
// append-only in time order.
func (e *Engine) Stop(ctx context.Context) (model.Macro, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil {
		return model.Macro{}, ErrNotRecording
	}
	s := e.current

	if err := e.source.Stop(); err != nil {
		e.logger.Error(ctx, "input hook release failed", logger.Error(err))
	}

	// Source.Stop closes the notification channel; wait for the producer
	// to finish, then for the collector to drain the queue.
	select {
	case <-s.producer:
	case <-ctx.Done():
		return model.Macro{}, ctx.Err()
	}
	select {
	case <-s.done:
	case <-ctx.Done():
		return model.Macro{}, ctx.Err()
	}

	m := model.Macro{
		Name:      e.macroName,
		CreatedAt: time.Now(),
		Events:    s.events,
	}
	e.current = nil

	metrics.UpdateRecordingActive(false)
	e.logger.Info(ctx, "recording stopped",
		logger.String("session", s.id),
		logger.Int("events", len(m.Events)),
		logger.Float64("duration", m.Duration()),
	)
	return m, nil
}

// IsRecording reports whether a session is active.
func (e *Engine) IsRecording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// EventCount returns the number of events recorded so far in the active
// session, or the final count of the last session.
func (e *Engine) EventCount() int {
	return int(e.count.Load())
}
