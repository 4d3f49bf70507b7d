// Package playback replays an ordered event sequence by synthesizing
// equivalent OS input actions at the recorded relative offsets.
//
// Each pass computes every event's target instant from a fixed pass
// baseline, never from the previous action's actual fire time, so
// scheduling lag never compounds across a sequence. Cancellation is
// cooperative and observed at each per-event wait; an action that has
// begun always completes.
package playback

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iam74k4/eventplayback/internal/domain/model"
	"github.com/iam74k4/eventplayback/pkg/logger"
	"github.com/iam74k4/eventplayback/pkg/metrics"
)

// Synthesizer generates OS-level input actions indistinguishable from
// genuine hardware input. Implementations fail fast: a synthesis error
// aborts the whole playback.
type Synthesizer interface {
	MouseMove(ctx context.Context, x, y int) error
	MouseDown(ctx context.Context, button model.Button) error
	MouseUp(ctx context.Context, button model.Button) error
	Scroll(ctx context.Context, dx, dy int) error
	KeyDown(ctx context.Context, key string) error
	KeyUp(ctx context.Context, key string) error
}

// session is the transient state of one playback. It exists only while
// playback is active and is destroyed on stop or completion.
type session struct {
	id     string
	macro  model.Macro
	loops  int
	cancel context.CancelFunc
	done   chan struct{}
}

// Engine replays macros. State machine: Idle -> Running -> Idle; there
// is no paused state.
type Engine struct {
	synth  Synthesizer
	logger logger.Logger

	mu      sync.Mutex
	current *session
	lastErr error
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a playback engine firing actions through synth.
func NewEngine(synth Synthesizer, opts ...Option) *Engine {
	e := &Engine{
		synth:  synth,
		logger: logger.Get().Named("playback"),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Start begins replaying macro on a dedicated goroutine and returns
// immediately. loopCount 0 repeats indefinitely; loopCount k > 0 runs
// exactly k passes. Fails with ErrAlreadyPlaying while Running.
func (e *Engine) Start(ctx context.Context, macro model.Macro, loopCount int) error {
	if loopCount < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLoopCount, loopCount)
	}
	if len(macro.Events) == 0 {
		return fmt.Errorf("%w: no events to play", model.ErrMalformedMacro)
	}
	if err := macro.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		return ErrAlreadyPlaying
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &session{
		id:     uuid.New().String(),
		macro:  macro,
		loops:  loopCount,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	e.current = s
	e.lastErr = nil

	go e.run(runCtx, s)

	metrics.RecordPlaybackStarted()
	metrics.UpdatePlaybackActive(true)
	e.logger.Info(ctx, "playback started",
		logger.String("session", s.id),
		logger.String("macro", macro.Name),
		logger.Int("events", len(macro.Events)),
		logger.Int("loops", loopCount),
	)
	return nil
}

// run drives the replay loop and transitions the engine back to Idle
// when it exits, however it exits.
func (e *Engine) run(ctx context.Context, s *session) {
	var err error
	passes := 0

	for {
		if err = e.playPass(ctx, s); err != nil {
			break
		}
		passes++
		metrics.RecordPlaybackPass()

		if s.loops > 0 && passes >= s.loops {
			break
		}
		if ctx.Err() != nil {
			err = ctx.Err()
			break
		}
	}

	s.cancel()

	e.mu.Lock()
	e.current = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		e.lastErr = err
	}
	e.mu.Unlock()

	metrics.UpdatePlaybackActive(false)
	switch {
	case err == nil:
		e.logger.Info(ctx, "playback completed",
			logger.String("session", s.id),
			logger.Int("passes", passes),
		)
	case errors.Is(err, context.Canceled):
		e.logger.Info(context.Background(), "playback cancelled",
			logger.String("session", s.id),
			logger.Int("passes", passes),
		)
	default:
		e.logger.Error(context.Background(), "playback aborted",
			logger.String("session", s.id),
			logger.Error(err),
		)
	}

	close(s.done)
}

// playPass replays the whole sequence once against a fixed baseline.
func (e *Engine) playPass(ctx context.Context, s *session) error {
	passStart := time.Now()

	for _, ev := range s.macro.Events {
		target := passStart.Add(time.Duration(ev.Timestamp * float64(time.Second)))

		if wait := time.Until(target); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		} else {
			// Behind schedule: fire immediately. The next target is
			// still computed from passStart, so no catch-up attempt.
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		if lag := time.Since(target); lag > 0 {
			metrics.RecordActionLag(float64(lag.Milliseconds()))
		}

		if err := e.fire(ctx, ev.Payload); err != nil {
			metrics.RecordSynthesisError()
			return fmt.Errorf("%w: %v", ErrSynthesis, err)
		}
		metrics.RecordActionFired(string(ev.Payload.Kind()))
	}

	return nil
}

// fire synthesizes a single action, dispatching exhaustively over the
// event variants.
func (e *Engine) fire(ctx context.Context, p model.Payload) error {
	switch v := p.(type) {
	case model.MouseMove:
		return e.synth.MouseMove(ctx, v.X, v.Y)
	case model.MouseDown:
		return e.synth.MouseDown(ctx, v.Button)
	case model.MouseUp:
		return e.synth.MouseUp(ctx, v.Button)
	case model.MouseScroll:
		return e.synth.Scroll(ctx, v.DX, v.DY)
	case model.KeyDown:
		return e.synth.KeyDown(ctx, v.Key)
	case model.KeyUp:
		return e.synth.KeyUp(ctx, v.Key)
	default:
		return fmt.Errorf("unknown payload %T", p)
	}
}

// Stop raises the cancellation signal and waits for the replay loop to
// exit. Fails with ErrNotPlaying while Idle.
func (e *Engine) Stop() error {
	e.mu.Lock()
	s := e.current
	e.mu.Unlock()

	if s == nil {
		return ErrNotPlaying
	}

	s.cancel()
	<-s.done
	return nil
}

// IsPlaying reports whether a playback session is active.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// Done returns a channel closed when the active session ends. When no
// session is active, the returned channel is already closed.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		return e.current.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Err reports how the last playback ended: nil after a completed or
// cancelled session, a wrapped ErrSynthesis after a synthesis failure.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}
